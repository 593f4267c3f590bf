package logger

import (
	"strings"
	"testing"
)

func TestSanitizeKVsRedactsSecretsAndHashesIDs(t *testing.T) {
	kv := sanitizeKVs([]interface{}{
		"access_token", "abc",
		"user_id", "0b7c3c1e-0000-4000-8000-000000000001",
		"module_id", "m-1",
		"dangling",
	})
	if len(kv) != 7 {
		t.Fatalf("len: want=7 got=%d", len(kv))
	}
	if kv[1] != redacted {
		t.Fatalf("access_token: want=%q got=%v", redacted, kv[1])
	}
	if s, ok := kv[3].(string); !ok || !strings.HasPrefix(s, "hash:") {
		t.Fatalf("user_id: want hash prefix got=%v", kv[3])
	}
	if kv[5] != "m-1" {
		t.Fatalf("module_id: want passthrough got=%v", kv[5])
	}
	if kv[6] != "dangling" {
		t.Fatalf("dangling key: want kept got=%v", kv[6])
	}
}

func TestSanitizeValueRedactsJWTLookingStrings(t *testing.T) {
	jwtish := "eyJhbGciOiJIUzI1NiJ9.eyJzdWIiOiIxMjM0NTY3ODkwIn0.signature"
	if got := sanitizeValue("detail", jwtish); got != redacted {
		t.Fatalf("want=%q got=%v", redacted, got)
	}
	nested := sanitizeValue("payload", map[string]interface{}{"password": "pw", "title": "ok"}).(map[string]interface{})
	if nested["password"] != redacted || nested["title"] != "ok" {
		t.Fatalf("nested map not sanitized: %v", nested)
	}
}
