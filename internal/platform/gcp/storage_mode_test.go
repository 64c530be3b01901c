package gcp

import (
	"errors"
	"testing"
)

func TestResolveStorageConfigFromEnvDefaultsToLocal(t *testing.T) {
	t.Setenv("ARTIFACT_STORAGE_MODE", "")
	t.Setenv("ARTIFACT_GCS_BUCKET_NAME", "")

	cfg, err := ResolveStorageConfigFromEnv()
	if err != nil {
		t.Fatalf("ResolveStorageConfigFromEnv: %v", err)
	}
	if cfg.Mode != StorageModeLocal {
		t.Fatalf("mode: want=%q got=%q", StorageModeLocal, cfg.Mode)
	}
	if cfg.UsesBucket() {
		t.Fatalf("local mode should not use a bucket")
	}
}

func TestResolveStorageConfigFromEnvGCSRequiresBucket(t *testing.T) {
	t.Setenv("ARTIFACT_STORAGE_MODE", "gcs")
	t.Setenv("ARTIFACT_GCS_BUCKET_NAME", "")

	_, err := ResolveStorageConfigFromEnv()
	var cfgErr *StorageConfigError
	if !errors.As(err, &cfgErr) || cfgErr.Code != StorageConfigErrorMissingBucket {
		t.Fatalf("expected missing bucket error, got %v", err)
	}
}

func TestResolveStorageConfigFromEnvEmulator(t *testing.T) {
	t.Setenv("ARTIFACT_STORAGE_MODE", "GCS_EMULATOR")
	t.Setenv("ARTIFACT_GCS_BUCKET_NAME", "artifacts")
	t.Setenv("STORAGE_EMULATOR_HOST", "http://fake-gcs:4443/")
	t.Setenv("ARTIFACT_PUBLIC_BASE_URL", "")

	cfg, err := ResolveStorageConfigFromEnv()
	if err != nil {
		t.Fatalf("ResolveStorageConfigFromEnv: %v", err)
	}
	if !cfg.IsEmulatorMode() || cfg.EmulatorHost != "http://fake-gcs:4443" {
		t.Fatalf("unexpected config: %+v", cfg)
	}
}

func TestResolveStorageConfigFromEnvRejects(t *testing.T) {
	cases := []struct {
		name string
		mode string
		host string
		code StorageConfigErrorCode
	}{
		{name: "invalid mode", mode: "s3", code: StorageConfigErrorInvalidMode},
		{name: "missing emulator host", mode: "gcs_emulator", code: StorageConfigErrorMissingEmulatorHost},
		{name: "relative emulator host", mode: "gcs_emulator", host: "fake-gcs:4443", code: StorageConfigErrorInvalidURL},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Setenv("ARTIFACT_STORAGE_MODE", tc.mode)
			t.Setenv("ARTIFACT_GCS_BUCKET_NAME", "artifacts")
			t.Setenv("STORAGE_EMULATOR_HOST", tc.host)
			t.Setenv("ARTIFACT_PUBLIC_BASE_URL", "")
			_, err := ResolveStorageConfigFromEnv()
			var cfgErr *StorageConfigError
			if !errors.As(err, &cfgErr) || cfgErr.Code != tc.code {
				t.Fatalf("want code %q, got %v", tc.code, err)
			}
		})
	}
}

func TestPublicURL(t *testing.T) {
	cases := []struct {
		name string
		cfg  StorageConfig
		key  string
		want string
	}{
		{
			name: "gcs default",
			cfg:  StorageConfig{Mode: StorageModeGCS, BucketName: "artifacts"},
			key:  "/outputs/nda_x.docx",
			want: "https://storage.googleapis.com/artifacts/outputs/nda_x.docx",
		},
		{
			name: "public base",
			cfg:  StorageConfig{Mode: StorageModeGCS, BucketName: "artifacts", PublicBaseURL: "https://cdn.example.com"},
			key:  "outputs/a.pdf",
			want: "https://cdn.example.com/artifacts/outputs/a.pdf",
		},
		{
			name: "emulator",
			cfg:  StorageConfig{Mode: StorageModeGCSEmulator, BucketName: "artifacts", EmulatorHost: "http://fake-gcs:4443"},
			key:  "outputs/a.pdf",
			want: "http://fake-gcs:4443/storage/v1/b/artifacts/o/outputs%2Fa.pdf?alt=media",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := publicURL(tc.cfg, tc.key); got != tc.want {
				t.Fatalf("publicURL: want=%q got=%q", tc.want, got)
			}
		})
	}
}

func TestContentTypeForKey(t *testing.T) {
	if got := ContentTypeForKey("x/NDA.DOCX"); got != "application/vnd.openxmlformats-officedocument.wordprocessingml.document" {
		t.Fatalf("docx: got=%q", got)
	}
	if got := ContentTypeForKey("a.pdf"); got != "application/pdf" {
		t.Fatalf("pdf: got=%q", got)
	}
	if got := ContentTypeForKey("a.bin"); got != "" {
		t.Fatalf("bin: got=%q", got)
	}
}
