// internal/adapters/out/gcs/avatar_repository_gcs.go
package gcs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"cloud.google.com/go/storage"
)

// AvatarRepositoryGCS stores uploaded avatar images in a GCS bucket and hands
// back the public object URL the profile records as its avatar reference.
//
// Object layout: <uid>/<timestamp>-<filename>
type AvatarRepositoryGCS struct {
	Client *storage.Client
	Bucket string
}

func NewAvatarRepositoryGCS(client *storage.Client, bucket string) *AvatarRepositoryGCS {
	return &AvatarRepositoryGCS{Client: client, Bucket: strings.TrimSpace(bucket)}
}

// Upload writes the image and returns its public URL.
func (r *AvatarRepositoryGCS) Upload(ctx context.Context, uid, filename, contentType string, src io.Reader) (string, error) {
	if r == nil || r.Client == nil {
		return "", errors.New("avatar_repository_gcs: nil storage client")
	}
	if r.Bucket == "" {
		return "", errors.New("avatar_repository_gcs: bucket is empty")
	}
	uid = strings.TrimSpace(uid)
	if uid == "" {
		return "", errors.New("avatar_repository_gcs: uid is empty")
	}

	name := path.Base(strings.TrimSpace(filename))
	if name == "" || name == "." || name == "/" {
		name = "avatar"
	}
	objName := fmt.Sprintf("%s/%d-%s", uid, time.Now().UnixMilli(), name)

	w := r.Client.Bucket(r.Bucket).Object(objName).NewWriter(ctx)
	if contentType != "" {
		w.ContentType = contentType
	}
	if _, err := io.Copy(w, src); err != nil {
		_ = w.Close()
		return "", fmt.Errorf("avatar_repository_gcs: upload failed: %w", err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("avatar_repository_gcs: finalize failed: %w", err)
	}

	return "https://storage.googleapis.com/" + r.Bucket + "/" + objName, nil
}
