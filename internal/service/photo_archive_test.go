package service

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockObjectPutter struct {
	mock.Mock
}

func (m *MockObjectPutter) PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*s3.PutObjectOutput), args.Error(1)
}

func TestS3PhotoArchive(t *testing.T) {
	putter := new(MockObjectPutter)
	var key string
	putter.On("PutObject", mock.Anything, mock.MatchedBy(func(in *s3.PutObjectInput) bool {
		body, _ := io.ReadAll(in.Body)
		key = aws.ToString(in.Key)
		return aws.ToString(in.Bucket) == "fridge-bucket" &&
			aws.ToString(in.ContentType) == "image/jpeg" &&
			string(body) == "jpeg-bytes"
	})).Return(&s3.PutObjectOutput{}, nil)

	archive := NewS3PhotoArchiveWithClient(putter, "fridge-bucket")
	url, err := archive.Archive(context.Background(), []byte("jpeg-bytes"))
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(key, "fridge-photos/"))
	assert.True(t, strings.HasSuffix(key, ".jpg"))
	assert.Equal(t, "https://fridge-bucket.s3.amazonaws.com/"+key, url)
	putter.AssertExpectations(t)
}

func TestS3PhotoArchiveError(t *testing.T) {
	putter := new(MockObjectPutter)
	putter.On("PutObject", mock.Anything, mock.Anything).Return(nil, errors.New("access denied"))

	_, err := NewS3PhotoArchiveWithClient(putter, "fridge-bucket").Archive(context.Background(), []byte("x"))
	assert.ErrorContains(t, err, "access denied")
}
