package redis_test

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	redisstore "github.com/fieldstack/fieldstack/internal/store/redis"
)

func TestOnboardingChannel(t *testing.T) {
	t.Parallel()

	runID := uuid.MustParse("aaaaaaaa-bbbb-cccc-dddd-eeeeeeeeeeee")

	t.Run("happy path", func(t *testing.T) {
		t.Parallel()

		got := redisstore.OnboardingChannel(runID)
		assert.Equal(t, "onboarding:aaaaaaaa-bbbb-cccc-dddd-eeeeeeeeeeee", got)
	})

	t.Run("nil UUID", func(t *testing.T) {
		t.Parallel()

		got := redisstore.OnboardingChannel(uuid.Nil)
		assert.Equal(t, "onboarding:00000000-0000-0000-0000-000000000000", got)
	})

	t.Run("prefix", func(t *testing.T) {
		t.Parallel()

		got := redisstore.OnboardingChannel(runID)
		assert.True(t, strings.HasPrefix(got, "onboarding:"), "expected prefix 'onboarding:', got %q", got)
	})

	t.Run("distinct runs get distinct channels", func(t *testing.T) {
		t.Parallel()

		assert.NotEqual(t,
			redisstore.OnboardingChannel(uuid.New()),
			redisstore.OnboardingChannel(uuid.New()))
	})
}
