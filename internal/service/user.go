package service

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"io"

	// Registered so image.DecodeConfig recognizes the allowed formats.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/google/uuid"
	_ "golang.org/x/image/webp"

	"github.com/rolodex-dev/rolodex/internal/domain"
	"github.com/rolodex-dev/rolodex/internal/errors"
	"github.com/rolodex-dev/rolodex/internal/imagestore"
	"github.com/rolodex-dev/rolodex/internal/logger"
)

type UserService interface {
	ChangeAvatar(ctx context.Context, user domain.User, file io.Reader) (domain.User, error)
}

const avatarFolder = "user_avatars"

var avatarContentTypes = map[string]string{
	"gif":  "image/gif",
	"jpeg": "image/jpeg",
	"png":  "image/png",
	"webp": "image/webp",
}

type Users struct {
	storage UserStorage
	images  imagestore.Store
}

func NewUsers(storage UserStorage, images imagestore.Store) *Users {
	return &Users{storage: storage, images: images}
}

// ChangeAvatar validates the uploaded image, stores it and points the user
// record at the new URL. The previous avatar is deleted best-effort; a
// leaked object is preferable to a failed upload. Returns the updated user.
func (u *Users) ChangeAvatar(ctx context.Context, user domain.User, file io.Reader) (domain.User, error) {
	data, err := io.ReadAll(file)
	if err != nil {
		return domain.User{}, fmt.Errorf("failed to read avatar upload: %w", err)
	}

	_, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return domain.User{}, errors.BadRequest("File is not a valid image")
	}
	contentType, ok := avatarContentTypes[format]
	if !ok {
		return domain.User{}, errors.BadRequest(fmt.Sprintf("Unsupported image format: %s", format))
	}

	// Keys carry no extension so the storage key can be recovered from
	// the stored URL.
	key := fmt.Sprintf("%s/%s", avatarFolder, uuid.NewString())
	url, err := u.images.Upload(ctx, key, contentType, bytes.NewReader(data))
	if err != nil {
		return domain.User{}, err
	}

	if err := u.storage.UpdateAvatar(ctx, user.Id, url); err != nil {
		return domain.User{}, err
	}

	if user.AvatarURL != nil {
		go u.deleteOldAvatar(*user.AvatarURL)
	}

	user.AvatarURL = &url
	return user, nil
}

func (u *Users) deleteOldAvatar(oldURL string) {
	key := imagestore.ExtractPublicID(oldURL)
	if key == "" {
		return
	}
	if err := u.images.Delete(context.Background(), key); err != nil {
		logger.Log.Error("failed to delete old avatar", "key", key, "error", err)
	}
}
