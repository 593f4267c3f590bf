package gcp

import "testing"

func TestPublicURL(t *testing.T) {
	cfg := bucketConfig{name: "artifacts"}
	cases := []struct {
		name   string
		cfg    bucketConfig
		mode   StorageMode
		public string
		emu    string
		want   string
	}{
		{"default", cfg, StorageModeGCS, "", "", "https://storage.googleapis.com/artifacts/a/b.zip"},
		{"cdn", bucketConfig{name: "artifacts", cdnDomain: "cdn.example.test"}, StorageModeGCS, "", "", "https://cdn.example.test/a/b.zip"},
		{"public base", cfg, StorageModeGCS, "http://localhost:4443", "", "http://localhost:4443/artifacts/a/b.zip"},
		{"emulator", cfg, StorageModeGCSEmulator, "", "http://fake-gcs:4443", "http://fake-gcs:4443/storage/v1/b/artifacts/o/a%2Fb.zip?alt=media"},
	}
	for _, tc := range cases {
		if got := publicURL(tc.cfg, tc.mode, tc.public, tc.emu, "/a/b.zip"); got != tc.want {
			t.Fatalf("%s: want=%s got=%s", tc.name, tc.want, got)
		}
	}
}

func TestStorageConfigNormalizeAndValidate(t *testing.T) {
	cfg := StorageConfig{EmulatorHost: "http://fake-gcs:4443/"}.Normalize()
	if cfg.Mode != StorageModeGCSEmulator || cfg.EmulatorHost != "http://fake-gcs:4443" {
		t.Fatalf("unexpected normalize result: %+v", cfg)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if err := (StorageConfig{Mode: StorageModeGCSEmulator}).Validate(); err == nil {
		t.Fatalf("emulator mode without host must fail")
	}
	if err := (StorageConfig{Mode: "s3"}).Validate(); err == nil {
		t.Fatalf("unknown mode must fail")
	}
	if (StorageConfig{}).Enabled() {
		t.Fatalf("empty config is disabled")
	}
}

func TestContentTypeForKey(t *testing.T) {
	if got := ContentTypeForKey("x/y.PNG"); got != "image/png" {
		t.Fatalf("want=image/png got=%s", got)
	}
	if got := ContentTypeForKey("x/y.bin"); got != "" {
		t.Fatalf("want empty got=%s", got)
	}
}
