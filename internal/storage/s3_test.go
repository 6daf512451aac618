package storage

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type object struct {
	body        []byte
	contentType string
}

type fakeS3 struct {
	objects map[string]object
}

func newFakeS3() *fakeS3 {
	return &fakeS3{objects: make(map[string]object)}
}

func (f *fakeS3) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	body, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.objects[aws.ToString(in.Bucket)+"/"+aws.ToString(in.Key)] = object{body: body, contentType: aws.ToString(in.ContentType)}
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) GetObject(_ context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	obj, ok := f.objects[aws.ToString(in.Bucket)+"/"+aws.ToString(in.Key)]
	if !ok {
		return nil, &s3types.NoSuchKey{Message: aws.String("missing")}
	}
	return &s3.GetObjectOutput{
		Body:          io.NopCloser(bytes.NewReader(obj.body)),
		ContentType:   aws.String(obj.contentType),
		ContentLength: aws.Int64(int64(len(obj.body))),
	}, nil
}

func (f *fakeS3) DeleteObject(_ context.Context, in *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	delete(f.objects, aws.ToString(in.Bucket)+"/"+aws.ToString(in.Key))
	return &s3.DeleteObjectOutput{}, nil
}

func TestS3StorageRoundTrip(t *testing.T) {
	ctx := context.Background()
	client := newFakeS3()
	s := NewS3Storage(client, "civic", "/uploads/")

	require.NoError(t, s.Put(ctx, "a.gif", strings.NewReader("gif-bytes"), ""))
	require.Contains(t, client.objects, "civic/uploads/a.gif")
	assert.Equal(t, "image/gif", client.objects["civic/uploads/a.gif"].contentType)

	blob, err := s.Get(ctx, "a.gif")
	require.NoError(t, err)
	body, err := io.ReadAll(blob.Body)
	require.NoError(t, err)
	assert.Equal(t, "gif-bytes", string(body))
	assert.Equal(t, int64(9), blob.Size)

	require.NoError(t, s.Delete(ctx, "a.gif"))
	_, err = s.Get(ctx, "a.gif")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestS3StorageWithoutPrefix(t *testing.T) {
	client := newFakeS3()
	s := NewS3Storage(client, "civic", "")

	require.NoError(t, s.Put(context.Background(), "b.png", strings.NewReader("x"), "image/png"))
	assert.Contains(t, client.objects, "civic/b.png")
}

func TestS3StorageRejectsUnsafeNames(t *testing.T) {
	s := NewS3Storage(newFakeS3(), "civic", "")

	assert.Error(t, s.Put(context.Background(), "../b.png", strings.NewReader("x"), ""))
	_, err := s.Get(context.Background(), "a/b.png")
	assert.ErrorIs(t, err, ErrNotFound)
}
