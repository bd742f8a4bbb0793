package artifact

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"
)

func TestDecode(t *testing.T) {
	tests := []struct {
		name  string
		input []byte
		enc   Encoding
		want  string
	}{
		{
			name:  "plain ascii",
			input: []byte("FOO-MIB DEFINITIONS ::= BEGIN END"),
			enc:   EncodingUTF8,
			want:  "FOO-MIB DEFINITIONS ::= BEGIN END",
		},
		{
			name:  "utf-8 bom is stripped",
			input: []byte("\xef\xbb\xbfA-MIB"),
			enc:   EncodingUTF8,
			want:  "A-MIB",
		},
		{
			name:  "invalid utf-8 is replaced",
			input: []byte("caf\xe9"),
			enc:   EncodingUTF8,
			want:  "caf�",
		},
		{
			name:  "latin-1",
			input: []byte("caf\xe9"),
			enc:   EncodingLatin1,
			want:  "café",
		},
		{
			name:  "auto keeps valid utf-8",
			input: []byte("café"),
			enc:   EncodingAuto,
			want:  "café",
		},
		{
			name:  "auto falls back to latin-1",
			input: []byte("caf\xe9"),
			enc:   EncodingAuto,
			want:  "café",
		},
		{
			name:  "unknown encoding behaves as utf-8",
			input: []byte("x\xff"),
			enc:   Encoding("ebcdic"),
			want:  "x�",
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			got := Decode(test.input, test.enc)
			if got != test.want {
				t.Errorf("Decode() = %q, want %q", got, test.want)
			}
		})
	}
}

func TestEncodingUnmarshalText(t *testing.T) {
	var e Encoding

	if err := e.UnmarshalText([]byte("LATIN1")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if e != EncodingLatin1 {
		t.Errorf("expected %q, got %q", EncodingLatin1, e)
	}

	if err := e.UnmarshalText([]byte("klingon")); err == nil {
		t.Errorf("expected error for unknown encoding")
	}
}

func TestNewInfo(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "sub", "m.txt")

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("M"), 0o644); err != nil {
		t.Fatal(err)
	}

	fi, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}

	info := NewInfo(root, path, "M", fi)

	if info.FileName != filepath.Join("sub", "m.txt") {
		t.Errorf("expected file name relative to root, got %q", info.FileName)
	}
	if info.Origin != "file://"+filepath.ToSlash(path) {
		t.Errorf("unexpected origin %q", info.Origin)
	}
	if info.Name != "M" {
		t.Errorf("unexpected name %q", info.Name)
	}
	if !info.ModTime.Equal(fi.ModTime()) {
		t.Errorf("expected mtime %v, got %v", fi.ModTime(), info.ModTime)
	}
	if runtime.GOOS == "linux" && info.ChangeTime.IsZero() {
		t.Errorf("expected a change time on linux")
	}
}

func TestInfo_ChangedSince(t *testing.T) {
	base := time.Unix(1_700_000_000, 0)
	later := base.Add(time.Hour)

	tests := []struct {
		name       string
		info       Info
		modTime    time.Time
		changeTime time.Time
		want       bool
	}{
		{
			name:       "unchanged",
			info:       Info{ModTime: base, ChangeTime: base},
			modTime:    base,
			changeTime: base,
			want:       false,
		},
		{
			name:       "newer mtime",
			info:       Info{ModTime: later, ChangeTime: base},
			modTime:    base,
			changeTime: base,
			want:       true,
		},
		{
			name:       "replaced with mtime preserved",
			info:       Info{ModTime: base, ChangeTime: later},
			modTime:    base,
			changeTime: base,
			want:       true,
		},
		{
			name:    "no recorded change time",
			info:    Info{ModTime: base, ChangeTime: later},
			modTime: base,
			want:    false,
		},
		{
			name:       "platform without change time",
			info:       Info{ModTime: base},
			modTime:    base,
			changeTime: base,
			want:       false,
		},
		{
			name:       "older mtime",
			info:       Info{ModTime: base, ChangeTime: base},
			modTime:    later,
			changeTime: base,
			want:       false,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if got := test.info.ChangedSince(test.modTime, test.changeTime); got != test.want {
				t.Errorf("ChangedSince() = %v, want %v", got, test.want)
			}
		})
	}
}

func TestFileOrigin(t *testing.T) {
	got := FileOrigin("/mibs/foo.mib")
	if got != "file:///mibs/foo.mib" {
		t.Errorf("FileOrigin() = %q", got)
	}
}
