package repository

import (
	"context"
	"testing"

	"github.com/mluqi/km-support/internal/entity"
	"github.com/mluqi/km-support/pkg/constant"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserRepo_GetById(t *testing.T) {
	repo := NewUserRepo(newTestDB(t), nil)
	ctx := context.Background()

	t.Run("absent user is nil, not an error", func(t *testing.T) {
		user, err := repo.GetById(ctx, "web-42")
		assert.NoError(t, err)
		assert.Nil(t, user)
	})

	t.Run("existing user comes back", func(t *testing.T) {
		now := entity.NowUnixMilli()
		require.NoError(t, repo.Create(ctx, &entity.User{
			Id:        "web-42",
			Name:      "Budi",
			Email:     "budi@example.com",
			Role:      constant.RoleUser,
			CreatedAt: now,
			UpdatedAt: now,
		}))

		user, err := repo.GetById(ctx, "web-42")
		assert.NoError(t, err)
		require.NotNil(t, user)
		assert.Equal(t, "Budi", user.Name)
		assert.Equal(t, constant.RoleUser, user.Role)
	})
}
