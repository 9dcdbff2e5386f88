package archive

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

type fakePutObject struct {
	input *s3.PutObjectInput
	body  string
	err   error
}

func (f *fakePutObject) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.input = in
	if in.Body != nil {
		b, _ := io.ReadAll(in.Body)
		f.body = string(b)
	}
	return &s3.PutObjectOutput{}, f.err
}

func TestS3Store_Put(t *testing.T) {
	fake := &fakePutObject{}
	s := &S3Store{client: fake, bucket: "aeo-reports"}

	// A non-seekable reader is buffered before upload.
	body := io.MultiReader(strings.NewReader("%PDF"), strings.NewReader("-1.7"))
	if err := s.Put(context.Background(), "reports/2026/10/x_a.pdf", body, ContentTypePDF); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if aws.ToString(fake.input.Bucket) != "aeo-reports" || aws.ToString(fake.input.Key) != "reports/2026/10/x_a.pdf" {
		t.Fatalf("unexpected input: %+v", fake.input)
	}
	if aws.ToString(fake.input.ContentType) != ContentTypePDF || fake.body != "%PDF-1.7" {
		t.Fatalf("unexpected body/content type: %q %q", aws.ToString(fake.input.ContentType), fake.body)
	}
	if got := s.URI("k"); got != "s3://aeo-reports/k" {
		t.Fatalf("URI = %q", got)
	}
}

func TestS3Store_PutError(t *testing.T) {
	boom := errors.New("NoSuchBucket")
	s := &S3Store{client: &fakePutObject{err: boom}, bucket: "b"}
	if err := s.Put(context.Background(), "k", strings.NewReader("x"), ContentTypePDF); !errors.Is(err, boom) {
		t.Fatalf("expected wrapped error, got %v", err)
	}
}

func TestNewS3Store_Config(t *testing.T) {
	if _, err := NewS3Store(context.Background(), S3Config{}); err == nil {
		t.Fatalf("expected error for missing bucket")
	}

	t.Setenv("AWS_CONFIG_FILE", "/dev/null")
	t.Setenv("AWS_SHARED_CREDENTIALS_FILE", "/dev/null")
	s, err := NewS3Store(context.Background(), S3Config{
		Bucket:          "aeo-reports",
		Region:          "ap-northeast-2",
		Endpoint:        "http://127.0.0.1:9000",
		AccessKeyID:     "minio",
		SecretAccessKey: "minio123",
	})
	if err != nil {
		t.Fatalf("NewS3Store: %v", err)
	}
	client, ok := s.client.(*s3.Client)
	if !ok {
		t.Fatalf("expected *s3.Client, got %T", s.client)
	}
	opts := client.Options()
	if aws.ToString(opts.BaseEndpoint) != "http://127.0.0.1:9000" || !opts.UsePathStyle {
		t.Fatalf("custom endpoint not applied: %v %v", aws.ToString(opts.BaseEndpoint), opts.UsePathStyle)
	}
	if opts.Region != "ap-northeast-2" {
		t.Fatalf("region = %q", opts.Region)
	}
}
