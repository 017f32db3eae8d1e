package browser

import "testing"

func TestValidateSchemes(t *testing.T) {
	tests := []struct {
		url     string
		wantErr bool
	}{
		{"https://www.bilibili.com/video/BV1xx411c7mD", false},
		{"http://example.com", false},
		{"file:///etc/passwd", true},
		{"javascript:alert(1)", true},
		{"ftp://example.com", true},
		{"", true},
	}

	for _, tt := range tests {
		err := validate(tt.url)
		if tt.wantErr && err == nil {
			t.Errorf("validate(%q): expected error, got nil", tt.url)
		}
		if !tt.wantErr && err != nil {
			t.Errorf("validate(%q): unexpected error %v", tt.url, err)
		}
	}
}

func TestOpenerHonorsBrowserEnv(t *testing.T) {
	t.Setenv("BROWSER", "firefox")
	name, args := opener()
	if name != "firefox" || len(args) != 0 {
		t.Errorf("opener() = %q %v, want firefox", name, args)
	}
}
