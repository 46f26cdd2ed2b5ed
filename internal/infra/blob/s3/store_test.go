package s3

import (
	"affordhostel/internal/blob/core"
	"bytes"
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"
)

func TestNewRequiresBucket(t *testing.T) {
	if _, err := New(context.Background(), Config{}); err == nil {
		t.Fatalf("expected bucket error")
	}
}

func TestMockRoundTripKeepsMetadata(t *testing.T) {
	s := NewMockForTests()
	ctx := context.Background()
	if _, err := s.Put(ctx, "verification/1/a.jpg", bytes.NewReader([]byte("jpeg")), core.PutOptions{ContentType: "image/jpeg", Metadata: map[string]string{"agent": "1"}}); err != nil {
		t.Fatalf("put: %v", err)
	}
	obj, err := s.Stat(ctx, "verification/1/a.jpg")
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if obj.Size != 4 || obj.Metadata["agent"] != "1" {
		t.Fatalf("unexpected object %+v", obj)
	}
	if !strings.Contains(obj.URL, "X-Amz-Signature") {
		t.Fatalf("expected presigned url, got %s", obj.URL)
	}
}

func TestPublicBaseURL(t *testing.T) {
	s, err := New(context.Background(), Config{Bucket: "b", AccessKeyID: "k", SecretAccessKey: "s", PublicBaseURL: "https://cdn.example/"})
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	u, err := s.URL(context.Background(), "avatars/1/x.png")
	if err != nil || u != "https://cdn.example/avatars/1/x.png" {
		t.Fatalf("unexpected url %q %v", u, err)
	}
	if _, err := s.URL(context.Background(), " "); !errors.Is(err, core.ErrInvalidKey) {
		t.Fatalf("expected invalid key")
	}
}

type statusErr struct{ code int }

func (e statusErr) Error() string       { return "status" }
func (e statusErr) HTTPStatusCode() int { return e.code }

func TestMapErr(t *testing.T) {
	if err := mapErr("k", statusErr{code: http.StatusNotFound}); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected not found mapping, got %v", err)
	}
	boom := statusErr{code: http.StatusInternalServerError}
	if err := mapErr("k", boom); errors.Is(err, core.ErrNotFound) || !errors.As(err, new(statusErr)) {
		t.Fatalf("expected wrapped error, got %v", err)
	}
}

func TestDecodeAWSChunked(t *testing.T) {
	raw := []byte("4;chunk-signature=abc\r\njpeg\r\n0\r\nx-amz-checksum-crc32:AAAA\r\n\r\n")
	if got := decodeAWSChunked(raw); string(got) != "jpeg" {
		t.Fatalf("unexpected decode %q", got)
	}
}
