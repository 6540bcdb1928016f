package security

import "testing"

func TestValidateDownloadURL(t *testing.T) {
	tests := []struct {
		url     string
		wantErr bool
	}{
		{"https://example.com/image.png", false},
		{"HTTP://example.com/image.png", false},
		{"http://127.0.0.1:8080/a.png", false},
		{"http://[::1]/a.png", false},
		{"", true},
		{"ftp://example.com/a.png", true},
		{"file:///etc/passwd", true},
		{"https:///a.png", true},
		{"http://169.254.169.254/latest/meta-data", true},
		{"http://[fe80::1]/a.png", true},
		{"http://[::ffff:169.254.1.1]/a.png", true},
		{"http://0.0.0.0/a.png", true},
		{"http://224.0.0.1/a.png", true},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			if err := ValidateDownloadURL(tt.url); (err != nil) != tt.wantErr {
				t.Errorf("ValidateDownloadURL(%q) error = %v, wantErr %v", tt.url, err, tt.wantErr)
			}
		})
	}
}
