package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

type RatingRepository interface {
	ApplyDelta(ctx context.Context, identity string, delta int64) error
	GetByIdentity(ctx context.Context, identity string) (int64, error)
}

type dbRating struct {
	client *redis.Client
}

func NewRatingRepository(client *redis.Client) RatingRepository {
	return &dbRating{
		client: client,
	}
}

func (that *dbRating) ApplyDelta(ctx context.Context, identity string, delta int64) error {
	ratingKey := "rating:" + identity

	if err := that.client.IncrBy(ctx, ratingKey, delta).Err(); err != nil {
		return fmt.Errorf("failed to apply rating delta: %w", err)
	}

	return nil
}

func (that *dbRating) GetByIdentity(ctx context.Context, identity string) (int64, error) {
	ratingKey := "rating:" + identity

	rating, err := that.client.Get(ctx, ratingKey).Int64()

	// a player with no recorded games has rating zero
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}

	if err != nil {
		return 0, fmt.Errorf("failed to get rating by identity: %w", err)
	}

	return rating, nil
}
