package cpf

import "testing"

func TestNormalize_TableTests(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    string
		wantErr bool
	}{
		{
			name: "valid with separators",
			raw:  "529.982.247-25",
			want: "52998224725",
		},
		{
			name: "valid bare digits",
			raw:  "52998224725",
			want: "52998224725",
		},
		{
			name:    "wrong first check digit",
			raw:     "529.982.247-35",
			wantErr: true,
		},
		{
			name:    "wrong second check digit",
			raw:     "529.982.247-24",
			wantErr: true,
		},
		{
			name:    "too short",
			raw:     "1234567890",
			wantErr: true,
		},
		{
			name:    "repeated digits",
			raw:     "111.111.111-11",
			wantErr: true,
		},
		{
			name:    "empty",
			raw:     "",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Normalize(tt.raw)
			if tt.wantErr {
				if err == nil {
					t.Errorf("Normalize(%q) expected error, got %q", tt.raw, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("Normalize(%q) unexpected error: %v", tt.raw, err)
			}
			if got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}
