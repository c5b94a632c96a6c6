package util

import (
	"testing"
)

func TestHumanReadableSize(t *testing.T) {
	tests := []struct {
		name  string
		input int64
		want  string
	}{
		{
			name:  "zero bytes",
			input: 0,
			want:  "0 B",
		},
		{
			name:  "single byte",
			input: 1,
			want:  "1 B",
		},
		{
			name:  "bytes at KB boundary",
			input: 1023,
			want:  "1023 B",
		},
		{
			name:  "exactly 1 KB",
			input: 1024,
			want:  "1.0 KB",
		},
		{
			name:  "1.5 KB",
			input: 1536,
			want:  "1.5 KB",
		},
		{
			name:  "KB at MB boundary",
			input: 1048575,
			want:  "1024.0 KB",
		},
		{
			name:  "exactly 1 MB",
			input: 1048576,
			want:  "1.0 MB",
		},
		{
			name:  "exactly 1 GB",
			input: 1073741824,
			want:  "1.0 GB",
		},
		{
			name:  "2.5 GB",
			input: 2684354560,
			want:  "2.5 GB",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := HumanReadableSize(tt.input)
			if got != tt.want {
				t.Errorf("HumanReadableSize(%d) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseSize(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    int64
		wantErr bool
	}{
		{
			name:  "plain bytes",
			input: "512",
			want:  512,
		},
		{
			name:  "zero",
			input: "0",
			want:  0,
		},
		{
			name:  "kilobytes short",
			input: "64K",
			want:  64 * 1024,
		},
		{
			name:  "kilobytes long",
			input: "64KB",
			want:  64 * 1024,
		},
		{
			name:  "megabytes",
			input: "10M",
			want:  10 * 1024 * 1024,
		},
		{
			name:  "gigabytes",
			input: "1G",
			want:  1024 * 1024 * 1024,
		},
		{
			name:  "terabytes",
			input: "2T",
			want:  2 * 1024 * 1024 * 1024 * 1024,
		},
		{
			name:  "lowercase",
			input: "5m",
			want:  5 * 1024 * 1024,
		},
		{
			name:  "explicit bytes suffix",
			input: "100B",
			want:  100,
		},
		{
			name:  "with whitespace",
			input: " 1M ",
			want:  1024 * 1024,
		},
		{
			name:    "empty",
			input:   "",
			wantErr: true,
		},
		{
			name:    "garbage",
			input:   "abc",
			wantErr: true,
		},
		{
			name:    "negative",
			input:   "-1M",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseSize(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Errorf("ParseSize(%q) expected error, got %d", tt.input, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseSize(%q) unexpected error: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ParseSize(%q) = %d, want %d", tt.input, got, tt.want)
			}
		})
	}
}
