package validation

import (
	"bytes"
	"errors"
	"path/filepath"
	"strings"
	"testing"
)

func TestSanitizePath(t *testing.T) {
	baseDir := "/tmp/test"

	tests := []struct {
		name      string
		userPath  string
		want      string
		wantError error
	}{
		{
			name:     "simple valid path",
			userPath: "quran.txt",
			want:     "quran.txt",
		},
		{
			name:     "nested valid path",
			userPath: "out/index",
			want:     filepath.Join("out", "index"),
		},
		{
			name:     "path with redundant separators",
			userPath: "out//index",
			want:     filepath.Join("out", "index"),
		},
		{
			name:     "path with dot component",
			userPath: "./quran.txt",
			want:     "quran.txt",
		},
		{
			name:     "dotdot that stays inside",
			userPath: "out/../quran.txt",
			want:     "quran.txt",
		},
		{
			name:     "file name starting with dots",
			userPath: "..quran.txt",
			want:     "..quran.txt",
		},
		{
			name:      "path traversal with dotdot",
			userPath:  "../etc/passwd",
			wantError: ErrPathTraversal,
		},
		{
			name:      "path traversal in middle",
			userPath:  "out/../../etc/passwd",
			wantError: ErrPathTraversal,
		},
		{
			name:      "absolute path",
			userPath:  "/etc/passwd",
			wantError: ErrPathTraversal,
		},
		{
			name:      "empty path",
			userPath:  "",
			wantError: ErrEmptyPath,
		},
		{
			name:      "very long path",
			userPath:  strings.Repeat("a", MaxPathLength+1),
			wantError: ErrPathTooLong,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := SanitizePath(baseDir, tt.userPath)
			if tt.wantError != nil {
				if !errors.Is(err, tt.wantError) {
					t.Errorf("SanitizePath() error = %v, want %v", err, tt.wantError)
				}
				return
			}
			if err != nil {
				t.Fatalf("SanitizePath() unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("SanitizePath() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestValidateFilename(t *testing.T) {
	tests := []struct {
		name      string
		filename  string
		wantError error
	}{
		{"valid artifact", "phrase_to_ayah_num.json", nil},
		{"valid arabic", "القرآن.txt", nil},
		{"empty", "", ErrInvalidFilename},
		{"dot", ".", ErrInvalidFilename},
		{"dotdot", "..", ErrInvalidFilename},
		{"slash", "a/b", ErrInvalidFilename},
		{"backslash", "a\\b", ErrInvalidFilename},
		{"null byte", "a\x00b", ErrInvalidFilename},
		{"control character", "a\nb", ErrInvalidFilename},
		{"leading hyphen", "-rf", ErrInvalidFilename},
		{"too long", strings.Repeat("a", MaxFilenameLength+1), ErrFilenameTooLong},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateFilename(tt.filename)
			if tt.wantError == nil {
				if err != nil {
					t.Errorf("ValidateFilename(%q) unexpected error: %v", tt.filename, err)
				}
				return
			}
			if !errors.Is(err, tt.wantError) {
				t.Errorf("ValidateFilename(%q) error = %v, want %v", tt.filename, err, tt.wantError)
			}
		})
	}
}

func TestValidatePath(t *testing.T) {
	tests := []struct {
		name      string
		path      string
		wantError error
	}{
		{"relative", "data/quran-simple.txt", nil},
		{"absolute", "/var/lib/surahidx/quran.xml", nil},
		{"empty", "", ErrEmptyPath},
		{"too long", strings.Repeat("a", MaxPathLength+1), ErrPathTooLong},
		{"null byte", "data\x00.txt", ErrInvalidCharacter},
		{"tab", "data\t.txt", ErrInvalidCharacter},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePath(tt.path)
			if tt.wantError == nil && err != nil {
				t.Errorf("ValidatePath(%q) unexpected error: %v", tt.path, err)
			}
			if tt.wantError != nil && !errors.Is(err, tt.wantError) {
				t.Errorf("ValidatePath(%q) error = %v, want %v", tt.path, err, tt.wantError)
			}
		})
	}
}

func TestValidateOutputPath(t *testing.T) {
	tests := []struct {
		path    string
		wantErr bool
	}{
		{"out/index", false},
		{"/tmp/build/quran.sqlite", false},
		{"out/index/", false},
		{"/", true},
		{"", true},
		{"out/-index", true},
	}

	for _, tt := range tests {
		err := ValidateOutputPath(tt.path)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateOutputPath(%q) error = %v, wantErr %v", tt.path, err, tt.wantErr)
		}
	}
}

func TestFileTypeFromExtension(t *testing.T) {
	tests := []struct {
		filename string
		want     FileType
	}{
		{"quran-simple.txt", FileTypeText},
		{"quran-simple.txt.xz", FileTypeXZ},
		{"quran-uthmani.XML", FileTypeXML},
		{"manifest.json", FileTypeJSON},
		{"index.sqlite", FileTypeSQLite},
		{"index.db", FileTypeSQLite},
		{"names.csv", FileTypeText},
		{"boundaries", FileTypeUnknown},
	}

	for _, tt := range tests {
		if got := FileTypeFromExtension(tt.filename); got != tt.want {
			t.Errorf("FileTypeFromExtension(%q) = %s, want %s", tt.filename, got, tt.want)
		}
	}
}

func TestDetectFileType(t *testing.T) {
	tests := []struct {
		name    string
		content []byte
		want    FileType
	}{
		{"xz", []byte{0xfd, 0x37, 0x7a, 0x58, 0x5a, 0x00, 0x00, 0x04}, FileTypeXZ},
		{"sqlite", append([]byte("SQLite format 3\x00"), make([]byte, 84)...), FileTypeSQLite},
		{"arabic text", []byte("1|1|بسم الله الرحمن الرحيم\n"), FileTypeText},
		{"xml", []byte(`<?xml version="1.0" encoding="utf-8"?><quran>`), FileTypeText},
		{"empty", nil, FileTypeText},
		{"binary", []byte{0x01, 0x02, 0x00, 0x03}, FileTypeUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DetectFileType(bytes.NewReader(tt.content))
			if err != nil {
				t.Fatalf("DetectFileType() error: %v", err)
			}
			if got != tt.want {
				t.Errorf("DetectFileType() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestValidateFileType(t *testing.T) {
	xzHeader := []byte{0xfd, 0x37, 0x7a, 0x58, 0x5a, 0x00}
	text := []byte("112|1|قل هو الله أحد\n")

	tests := []struct {
		name     string
		content  []byte
		filename string
		want     FileType
		wantErr  bool
	}{
		{"text corpus", text, "quran.txt", FileTypeText, false},
		{"compressed corpus", xzHeader, "quran.txt.xz", FileTypeXZ, false},
		{"xml corpus", []byte("<quran></quran>"), "quran.xml", FileTypeXML, false},
		{"no extension", text, "quran", FileTypeText, false},
		{"plain text named xz", text, "quran.txt.xz", FileTypeUnknown, true},
		{"xz named txt", xzHeader, "quran.txt", FileTypeUnknown, true},
		{"sqlite named xml", []byte("SQLite format 3\x00"), "quran.xml", FileTypeUnknown, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ValidateFileType(bytes.NewReader(tt.content), tt.filename)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ValidateFileType() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr && !errors.Is(err, ErrTypeMismatch) {
				t.Errorf("ValidateFileType() error = %v, want ErrTypeMismatch", err)
			}
			if got != tt.want {
				t.Errorf("ValidateFileType() = %s, want %s", got, tt.want)
			}
		})
	}
}
