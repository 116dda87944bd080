// Package drive uploads generated assets to Google Drive.
//
// It requires GOOGLE_APPLICATION_CREDENTIALS env (or an explicit credentials
// file) for a service account with access to the target folder. An absent
// configuration disables uploading entirely: callers hold a nil *Client and
// every method on it is a no-op.
package drive

import (
	"context"
	"fmt"
	"io"
	"strings"

	"google.golang.org/api/drive/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

const folderMimeType = "application/vnd.google-apps.folder"

type Client struct {
	svc      *drive.Service
	parentID string
}

// NewClient builds a Drive client rooted at parentFolderID.
// credentialsFile may be empty, in which case application default
// credentials (GOOGLE_APPLICATION_CREDENTIALS env) are used.
func NewClient(ctx context.Context, credentialsFile string, parentFolderID string) (*Client, error) {
	if parentFolderID == "" {
		return nil, fmt.Errorf("parent folder id is required")
	}
	opts := []option.ClientOption{option.WithScopes(drive.DriveFileScope)}
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}
	svc, err := drive.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create drive service: %w", err)
	}
	return &Client{svc: svc, parentID: parentFolderID}, nil
}

// EnsureFolder returns the id of the subfolder with the given name under the
// client's parent folder, creating it if it does not exist yet.
func (c *Client) EnsureFolder(ctx context.Context, name string) (string, error) {
	if c == nil {
		return "", nil
	}
	query := fmt.Sprintf("name = '%s' and mimeType = '%s' and '%s' in parents and trashed = false",
		escapeQuery(name), folderMimeType, c.parentID)
	list, err := c.svc.Files.List().Q(query).Fields("files(id, name)").PageSize(1).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("failed to list folders: %w", err)
	}
	if len(list.Files) > 0 {
		return list.Files[0].Id, nil
	}
	folder, err := c.svc.Files.Create(&drive.File{
		Name:     name,
		MimeType: folderMimeType,
		Parents:  []string{c.parentID},
	}).Fields("id").Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("failed to create folder %q: %w", name, err)
	}
	return folder.Id, nil
}

// Upload puts the payload into folderID under the given name and returns the
// file's web view link.
func (c *Client) Upload(ctx context.Context, folderID string, name string, mimeType string,
	payload io.Reader) (string, error) {
	if c == nil {
		return "", nil
	}
	file, err := c.svc.Files.Create(&drive.File{
		Name:    name,
		Parents: []string{folderID},
	}).Media(payload, googleapi.ContentType(mimeType)).Fields("id, webViewLink").Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("failed to upload %q: %w", name, err)
	}
	return file.WebViewLink, nil
}

// Drive query strings use single-quoted literals.
func escapeQuery(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	return strings.ReplaceAll(s, `'`, `\'`)
}
