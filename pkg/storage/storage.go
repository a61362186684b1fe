package storage

import (
	"context"
	"encoding/base64"
	"fmt"
	"log"
	"net/http"
	"os"
	"strings"

	cloudstorage "cloud.google.com/go/storage"
	firebase "firebase.google.com/go/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"google.golang.org/api/option"
)

// Uploader stores and removes image assets. Upload returns the storage object
// id and its public URL; Destroy removes the object by that id.
type Uploader interface {
	Upload(ctx context.Context, folder, data string) (publicID, url string, err error)
	Destroy(ctx context.Context, publicID string) error
}

// FirebaseStorage implements Uploader on a Firebase Cloud Storage bucket.
type FirebaseStorage struct {
	bucket     *cloudstorage.BucketHandle
	bucketName string
}

// InitStorage initializes the Firebase app and its default storage bucket.
func InitStorage(ctx context.Context, credentialsPath, bucketName string) (*FirebaseStorage, error) {
	if credentialsPath == "" {
		return nil, fmt.Errorf("firebase credentials path not provided")
	}

	// Check if the credentials file exists
	if _, err := os.Stat(credentialsPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("firebase credentials file not found at %s", credentialsPath)
	}

	opt := option.WithCredentialsFile(credentialsPath)

	app, err := firebase.NewApp(ctx, &firebase.Config{StorageBucket: bucketName}, opt)
	if err != nil {
		return nil, fmt.Errorf("error initializing firebase app: %w", err)
	}

	client, err := app.Storage(ctx)
	if err != nil {
		return nil, fmt.Errorf("error getting firebase storage client: %w", err)
	}

	bucket, err := client.DefaultBucket()
	if err != nil {
		return nil, fmt.Errorf("error getting default storage bucket: %w", err)
	}

	log.Println("Firebase app and storage bucket initialized successfully!")
	return &FirebaseStorage{bucket: bucket, bucketName: bucketName}, nil
}

// Upload writes a base64-encoded image (with or without a data-URI prefix)
// into the given folder and makes it publicly readable.
func (s *FirebaseStorage) Upload(ctx context.Context, folder, data string) (string, string, error) {
	raw, err := decodeImage(data)
	if err != nil {
		return "", "", fmt.Errorf("invalid image payload: %w", err)
	}

	objectName := folder + "/" + primitive.NewObjectID().Hex()
	w := s.bucket.Object(objectName).NewWriter(ctx)
	w.ContentType = http.DetectContentType(raw)
	w.PredefinedACL = "publicRead"

	if _, err := w.Write(raw); err != nil {
		w.Close()
		return "", "", fmt.Errorf("error writing storage object: %w", err)
	}
	if err := w.Close(); err != nil {
		return "", "", fmt.Errorf("error finalizing storage object: %w", err)
	}

	url := fmt.Sprintf("https://storage.googleapis.com/%s/%s", s.bucketName, objectName)
	return objectName, url, nil
}

// Destroy removes an object by its storage id. A missing object is not an error.
func (s *FirebaseStorage) Destroy(ctx context.Context, publicID string) error {
	if publicID == "" {
		return nil
	}
	err := s.bucket.Object(publicID).Delete(ctx)
	if err == cloudstorage.ErrObjectNotExist {
		return nil
	}
	return err
}

func decodeImage(data string) ([]byte, error) {
	if i := strings.IndexByte(data, ','); i >= 0 && strings.HasPrefix(data, "data:") {
		data = data[i+1:]
	}
	return base64.StdEncoding.DecodeString(data)
}
