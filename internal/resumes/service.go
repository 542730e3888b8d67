package resumes

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"interviewhub/internal/shared/auth"
	"interviewhub/internal/shared/storage/object"
	"interviewhub/internal/shared/telemetry"
	"interviewhub/internal/shared/util"
)

const (
	DefaultMaxBytes   = 5 << 20
	defaultPresignTTL = 15 * time.Minute
)

// Service validates and stores resumes in the object store.
type Service struct {
	Store object.ObjectStore
	// Presigner is nil when the store cannot accept direct uploads.
	Presigner  object.Presigner
	MaxBytes   int64
	PresignTTL time.Duration
}

func NewService(store object.ObjectStore, maxBytes int64) *Service {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}
	svc := &Service{Store: store, MaxBytes: maxBytes, PresignTTL: defaultPresignTTL}
	if p, ok := store.(object.Presigner); ok {
		svc.Presigner = p
	}
	return svc
}

// Upload validates a resume body and stores it under the student's namespace.
func (s *Service) Upload(ctx context.Context, actor auth.Actor, fileName, contentType string, r io.Reader) (Artifact, error) {
	if err := actor.Require(auth.RoleStudent); err != nil {
		return Artifact{}, err
	}
	fileName = strings.TrimSpace(fileName)
	if fileName == "" || r == nil {
		return Artifact{}, ErrMissing
	}
	resolved, ok := typeFor(fileName, contentType)
	if !ok {
		return Artifact{}, ErrUnsupportedType
	}
	data, err := io.ReadAll(io.LimitReader(r, s.MaxBytes+1))
	if err != nil {
		return Artifact{}, fmt.Errorf("read resume: %w", err)
	}
	if int64(len(data)) > s.MaxBytes {
		return Artifact{}, ErrTooLarge
	}
	if len(data) == 0 {
		return Artifact{}, ErrMissing
	}
	if err := checkBody(resolved, data); err != nil {
		telemetry.Warn("resumes.rejected", map[string]any{
			"user_id":      actor.ID,
			"content_type": resolved,
			"error":        err,
		})
		return Artifact{}, ErrUnreadable
	}

	obj, err := s.Store.Save(ctx, actor.ID, fileName, resolved, bytes.NewReader(data))
	if err != nil {
		return Artifact{}, fmt.Errorf("store resume: %w", err)
	}
	telemetry.Info("resumes.stored", map[string]any{
		"user_id":    actor.ID,
		"key":        obj.Key,
		"size_bytes": obj.SizeBytes,
		"provider":   s.Store.Provider(),
	})
	return Artifact{
		Key:         obj.Key,
		FileName:    fileName,
		ContentType: resolved,
		SizeBytes:   obj.SizeBytes,
		Fresh:       true,
	}, nil
}

// Presign issues a direct-upload URL for a student's resume.
func (s *Service) Presign(ctx context.Context, actor auth.Actor, fileName, contentType string, sizeBytes int64) (object.PresignedUpload, error) {
	if err := actor.Require(auth.RoleStudent); err != nil {
		return object.PresignedUpload{}, err
	}
	if s.Presigner == nil {
		return object.PresignedUpload{}, ErrPresignUnavailable
	}
	resolved, ok := typeFor(fileName, contentType)
	if !ok {
		return object.PresignedUpload{}, ErrUnsupportedType
	}
	if sizeBytes <= 0 || sizeBytes > s.MaxBytes {
		return object.PresignedUpload{}, ErrTooLarge
	}
	key, err := object.NewKey(actor.ID, fileName)
	if err != nil {
		return object.PresignedUpload{}, ErrUnsupportedType
	}
	return s.Presigner.PresignUpload(ctx, key, resolved, s.PresignTTL)
}

// Claim turns a presigned upload into an artifact once the body is in place.
func (s *Service) Claim(ctx context.Context, actor auth.Actor, key, fileName string) (Artifact, error) {
	if err := actor.Require(auth.RoleStudent); err != nil {
		return Artifact{}, err
	}
	key = strings.TrimSpace(key)
	if key == "" {
		return Artifact{}, ErrMissing
	}
	if !object.OwnedBy(key, actor.ID) {
		return Artifact{}, ErrNotOwned
	}
	obj, err := s.Store.Stat(ctx, key)
	if err != nil {
		if errors.Is(err, object.ErrNotFound) {
			return Artifact{}, ErrNotFound
		}
		return Artifact{}, err
	}
	if obj.SizeBytes <= 0 {
		return Artifact{}, ErrMissing
	}
	if obj.SizeBytes > s.MaxBytes {
		return Artifact{}, ErrTooLarge
	}
	if strings.TrimSpace(fileName) == "" {
		fileName = displayName(key)
	}
	resolved, ok := typeFor(fileName, obj.ContentType)
	if !ok {
		return Artifact{}, ErrUnsupportedType
	}
	return Artifact{Key: key, FileName: fileName, ContentType: resolved, SizeBytes: obj.SizeBytes}, nil
}

// Open streams a stored resume.
func (s *Service) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	rc, err := s.Store.Open(ctx, key)
	if errors.Is(err, object.ErrNotFound) {
		return nil, ErrNotFound
	}
	return rc, err
}

// Discard removes a stored resume that no application ended up referencing.
func (s *Service) Discard(ctx context.Context, key string) error {
	if strings.TrimSpace(key) == "" {
		return nil
	}
	if err := s.Store.Delete(ctx, key); err != nil && !errors.Is(err, object.ErrNotFound) {
		return err
	}
	return nil
}

// displayName strips the key's directory and random prefix.
func displayName(key string) string {
	name := key
	if i := strings.LastIndex(name, "/"); i >= 0 {
		name = name[i+1:]
	}
	if i := strings.Index(name, "_"); i >= 0 {
		name = name[i+1:]
	}
	if clean, err := util.SanitizeFileName(name); err == nil {
		return clean
	}
	return name
}
