package mirror

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path"
	"strconv"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"

	"github.com/budgetbuddy/ledger/internal/client/models"
)

// S3API is the part of *s3.Client the mirror uses.
type S3API interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	GetObject(ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	DeleteObject(ctx context.Context, in *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
	ListObjectsV2(ctx context.Context, in *s3.ListObjectsV2Input, optFns ...func(*s3.Options)) (*s3.ListObjectsV2Output, error)
}

type S3Config struct {
	Bucket    string
	Region    string
	Endpoint  string
	AccessKey string
	SecretKey string
}

// S3Mirror stores each record as users/{owner}/{collection}/{id}.json in a
// bucket of any S3-compatible store.
type S3Mirror struct {
	api    S3API
	bucket string
}

func NewS3Mirror(ctx context.Context, c S3Config) (*S3Mirror, error) {
	cfg, err := config.LoadDefaultConfig(ctx,
		config.WithRegion(c.Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(c.AccessKey, c.SecretKey, "")))
	if err != nil {
		return nil, fmt.Errorf("failed to load s3 config: %w", err)
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if c.Endpoint != "" {
			o.BaseEndpoint = aws.String(c.Endpoint)
		}
		// MinIO and friends
		o.UsePathStyle = true
	})

	return NewS3MirrorWithAPI(client, c.Bucket), nil
}

func NewS3MirrorWithAPI(api S3API, bucket string) *S3Mirror {
	return &S3Mirror{api: api, bucket: bucket}
}

func collectionPrefix(ownerID string, kind models.Kind) string {
	return "users/" + ownerID + "/" + kind.Collection() + "/"
}

func objectKey(ownerID string, kind models.Kind, id int64) string {
	return collectionPrefix(ownerID, kind) + DocKey(id) + ".json"
}

func (m *S3Mirror) Upsert(ctx context.Context, ownerID string, kind models.Kind, rec models.Record) error {
	if err := checkScope(ownerID, kind); err != nil {
		return err
	}

	body, err := json.Marshal(EncodeDocument(rec))
	if err != nil {
		return fmt.Errorf("failed to encode document: %w", err)
	}

	_, err = m.api.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(m.bucket),
		Key:         aws.String(objectKey(ownerID, kind, rec.ID)),
		Body:        bytes.NewReader(body),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return mapS3Error("put", err)
	}
	return nil
}

func (m *S3Mirror) FetchAll(ctx context.Context, ownerID string, kind models.Kind) ([]models.Record, error) {
	if err := checkScope(ownerID, kind); err != nil {
		return nil, err
	}

	p := s3.NewListObjectsV2Paginator(m.api, &s3.ListObjectsV2Input{
		Bucket: aws.String(m.bucket),
		Prefix: aws.String(collectionPrefix(ownerID, kind)),
	})

	result := make([]models.Record, 0)
	for p.HasMorePages() {
		page, err := p.NextPage(ctx)
		if err != nil {
			return nil, mapS3Error("list", err)
		}

		for _, obj := range page.Contents {
			key := aws.ToString(obj.Key)
			if !strings.HasSuffix(key, ".json") {
				continue
			}

			doc, err := m.getDocument(ctx, key)
			if err != nil {
				return nil, err
			}
			if doc == nil {
				continue
			}
			// the key names the document; its body id may disagree
			if id, err := strconv.ParseInt(strings.TrimSuffix(path.Base(key), ".json"), 10, 64); err == nil {
				doc[fieldID] = id
			}
			if rec, ok := DecodeDocument(doc); ok {
				result = append(result, rec)
			}
		}
	}

	return result, nil
}

// getDocument returns nil, nil for objects that vanished since listing or
// that are not JSON objects.
func (m *S3Mirror) getDocument(ctx context.Context, key string) (map[string]any, error) {
	out, err := m.api.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(m.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var nsk *types.NoSuchKey
		if errors.As(err, &nsk) {
			return nil, nil
		}
		return nil, mapS3Error("get", err)
	}
	defer out.Body.Close()

	var doc map[string]any
	dec := json.NewDecoder(out.Body)
	dec.UseNumber()
	if err := dec.Decode(&doc); err != nil {
		return nil, nil
	}
	return doc, nil
}

func (m *S3Mirror) DeleteByID(ctx context.Context, ownerID string, kind models.Kind, id int64) error {
	if err := checkScope(ownerID, kind); err != nil {
		return err
	}

	_, err := m.api.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(m.bucket),
		Key:    aws.String(objectKey(ownerID, kind, id)),
	})
	if err != nil {
		return mapS3Error("delete", err)
	}
	return nil
}

func mapS3Error(op string, err error) error {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "AccessDenied", "InvalidAccessKeyId", "SignatureDoesNotMatch", "ExpiredToken":
			return ErrUnauthenticated
		case "SlowDown", "ServiceUnavailable", "RequestTimeout":
			return ErrUnavailable
		}
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return ErrUnavailable
	}
	return fmt.Errorf("s3 %s: %w", op, err)
}
