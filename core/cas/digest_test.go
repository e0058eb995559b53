package cas

import (
	"errors"
	"strings"
	"testing"
)

const (
	emptySHA256 = "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855"
	emptyBLAKE3 = "af1349b9f5f9a1a6a0404dea36dcc9499bcb25c9adc112b7cc9a93cae41f3262"
	abcSHA256   = "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad"
)

func TestSumKnownVectors(t *testing.T) {
	d := Sum(nil)
	if d.SHA256 != emptySHA256 {
		t.Errorf("Sum(nil).SHA256 = %s, want %s", d.SHA256, emptySHA256)
	}
	if d.BLAKE3 != emptyBLAKE3 {
		t.Errorf("Sum(nil).BLAKE3 = %s, want %s", d.BLAKE3, emptyBLAKE3)
	}
	if d.Size != 0 {
		t.Errorf("Sum(nil).Size = %d", d.Size)
	}
	if got := Sum([]byte("abc")); got.SHA256 != abcSHA256 || got.Size != 3 {
		t.Errorf("Sum(abc) = %+v, want sha256 %s", got, abcSHA256)
	}
}

func TestHasherMatchesSum(t *testing.T) {
	data := []byte(`{"1": ["بسم"]}`)

	h := NewHasher()
	h.Write(data[:5])
	h.Write(data[5:])
	if got, want := h.Digest(), Sum(data); got != want {
		t.Errorf("Hasher.Digest() = %+v, want %+v", got, want)
	}

	got, err := SumReader(strings.NewReader(string(data)))
	if err != nil {
		t.Fatalf("SumReader() error: %v", err)
	}
	if got != Sum(data) {
		t.Errorf("SumReader() = %+v, want %+v", got, Sum(data))
	}
}

func TestDigestCheck(t *testing.T) {
	want := Sum([]byte("phrase_to_ayah_num"))

	tests := []struct {
		name     string
		recorded Digest
		actual   Digest
		wantErr  error
	}{
		{"match", want, want, nil},
		{"content changed", want, Sum([]byte("phrase_to_ayah_num!")), ErrMismatch},
		{"size only", want, Digest{SHA256: want.SHA256, BLAKE3: want.BLAKE3, Size: 1}, ErrMismatch},
		{"blake3 only", want, Digest{SHA256: want.SHA256, BLAKE3: emptyBLAKE3, Size: want.Size}, ErrMismatch},
		{"malformed record", Digest{SHA256: "xyz", BLAKE3: want.BLAKE3}, want, ErrInvalidHash},
		{"uppercase record", Digest{SHA256: strings.ToUpper(want.SHA256), BLAKE3: want.BLAKE3}, want, ErrInvalidHash},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.recorded.Check(tt.actual)
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("Check() error = %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Check() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}
