package utils

import (
	"strings"
	"testing"
)

func TestCompressRoundTrip(t *testing.T) {
	text := strings.Repeat("The quick brown fox jumps over the lazy dog. ", 50)

	for _, alg := range []CompressionAlgorithm{CompressionNone, CompressionGzip, CompressionBrotli} {
		t.Run(string(alg), func(t *testing.T) {
			compressed, err := CompressData([]byte(text), alg)
			if err != nil {
				t.Fatalf("compress: %v", err)
			}
			got, err := DecompressText(compressed, alg)
			if err != nil {
				t.Fatalf("decompress: %v", err)
			}
			if got != text {
				t.Error("round trip altered the text")
			}
			if alg != CompressionNone && len(compressed) >= len(text) {
				t.Errorf("%s did not shrink repetitive text (%d -> %d)", alg, len(text), len(compressed))
			}
		})
	}
}

func TestGetBestCompression(t *testing.T) {
	if alg := GetBestCompression(make([]byte, 100)); alg != CompressionNone {
		t.Errorf("small payload: got %s, want none", alg)
	}
	if alg := GetBestCompression(make([]byte, 5000)); alg != CompressionBrotli {
		t.Errorf("large payload: got %s, want brotli", alg)
	}
}

func TestCompressDataUnknownAlgorithm(t *testing.T) {
	if _, err := CompressData([]byte("x"), "zstd"); err == nil {
		t.Error("expected error for unsupported algorithm")
	}
}

func TestTextFingerprint(t *testing.T) {
	a := TextFingerprint("text-embedding-004", "hello")
	b := TextFingerprint("text-embedding-004", "hello")
	if a != b {
		t.Error("fingerprint not stable")
	}
	if TextFingerprint("other-model", "hello") == a {
		t.Error("model name not part of the fingerprint")
	}
	if TextFingerprint("text-embedding-004", "hello ") == a {
		t.Error("text not part of the fingerprint")
	}
	if len(a) != 64 {
		t.Errorf("fingerprint length %d, want 64 hex chars", len(a))
	}
}
