package vault

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"tilecfg/internal/core"
)

// fakeS3 is an in-memory bucket serving both the client and uploader calls.
type fakeS3 struct {
	bucket  string
	objects map[string][]byte
	uploads int
	headErr error
}

func newFakeS3(bucket string) *fakeS3 {
	return &fakeS3{bucket: bucket, objects: make(map[string][]byte)}
}

func (f *fakeS3) GetObject(_ context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	data, ok := f.objects[aws.ToString(in.Key)]
	if !ok {
		return nil, &types.NoSuchKey{}
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(data))}, nil
}

func (f *fakeS3) HeadObject(_ context.Context, in *s3.HeadObjectInput, _ ...func(*s3.Options)) (*s3.HeadObjectOutput, error) {
	if f.headErr != nil {
		return nil, f.headErr
	}
	if _, ok := f.objects[aws.ToString(in.Key)]; !ok {
		return nil, &types.NotFound{}
	}
	return &s3.HeadObjectOutput{}, nil
}

func (f *fakeS3) HeadBucket(_ context.Context, in *s3.HeadBucketInput, _ ...func(*s3.Options)) (*s3.HeadBucketOutput, error) {
	if aws.ToString(in.Bucket) != f.bucket {
		return nil, &types.NoSuchBucket{}
	}
	return &s3.HeadBucketOutput{}, nil
}

func (f *fakeS3) Upload(_ context.Context, in *s3.PutObjectInput, _ ...func(*manager.Uploader)) (*manager.UploadOutput, error) {
	data, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.uploads++
	f.objects[aws.ToString(in.Key)] = data
	return &manager.UploadOutput{Key: in.Key}, nil
}

func TestS3Vault_PutAndGetContent(t *testing.T) {
	fake := newFakeS3("configs")
	v := newS3Vault("remote", "configs", "tilecfg", fake, fake)

	content := "yabai -m config layout bsp\n"
	if err := v.PutContent("abc", strings.NewReader(content), int64(len(content))); err != nil {
		t.Fatalf("PutContent() error = %v", err)
	}
	if _, ok := fake.objects["tilecfg/content/abc"]; !ok {
		t.Errorf("objects = %v, want key tilecfg/content/abc", fake.objects)
	}

	var buf bytes.Buffer
	if err := v.GetContent("abc", &buf); err != nil {
		t.Fatalf("GetContent() error = %v", err)
	}
	if buf.String() != content {
		t.Errorf("GetContent() = %q, want %q", buf.String(), content)
	}
}

func TestS3Vault_PutContent_SkipsExisting(t *testing.T) {
	fake := newFakeS3("configs")
	v := newS3Vault("remote", "configs", "", fake, fake)

	for range 2 {
		if err := v.PutContent("abc", strings.NewReader("data"), 4); err != nil {
			t.Fatalf("PutContent() error = %v", err)
		}
	}
	if fake.uploads != 1 {
		t.Errorf("uploads = %d, want 1", fake.uploads)
	}
}

func TestS3Vault_PutContent_SizeMismatch(t *testing.T) {
	fake := newFakeS3("configs")
	v := newS3Vault("remote", "configs", "", fake, fake)

	if err := v.PutContent("abc", strings.NewReader("data"), 9); err == nil {
		t.Fatal("PutContent() expected size mismatch error")
	}
	if fake.uploads != 0 {
		t.Errorf("uploads = %d, want 0", fake.uploads)
	}
}

func TestS3Vault_NotFound(t *testing.T) {
	fake := newFakeS3("configs")
	v := newS3Vault("remote", "configs", "", fake, fake)

	if err := v.GetContent("missing", &bytes.Buffer{}); !errors.Is(err, core.ErrNotFound) {
		t.Errorf("GetContent() error = %v, want ErrNotFound", err)
	}
	ok, err := v.HasContent("missing")
	if err != nil || ok {
		t.Errorf("HasContent() = %v, %v; want false, nil", ok, err)
	}
}

func TestS3Vault_HasContent_PropagatesErrors(t *testing.T) {
	fake := newFakeS3("configs")
	fake.headErr = errors.New("access denied")
	v := newS3Vault("remote", "configs", "", fake, fake)

	if _, err := v.HasContent("abc"); err == nil {
		t.Error("HasContent() expected error")
	}
	if err := v.PutContent("abc", strings.NewReader("data"), 4); err == nil {
		t.Error("PutContent() expected error when existence check fails")
	}
}

func TestS3Vault_ValidateSetup(t *testing.T) {
	fake := newFakeS3("configs")

	if err := newS3Vault("remote", "configs", "", fake, fake).ValidateSetup(); err != nil {
		t.Errorf("ValidateSetup() error = %v", err)
	}
	if err := newS3Vault("remote", "other", "", fake, fake).ValidateSetup(); err == nil {
		t.Error("ValidateSetup() expected error for missing bucket")
	}
}
