package reconciler

import (
	"context"
	"errors"
	"testing"

	"github.com/douhashi/conflictlabel/internal/github"
	"github.com/douhashi/conflictlabel/internal/testutil/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var testRepo = github.Repository{Owner: "octo", Name: "hello"}

func TestResolver_Resolve(t *testing.T) {
	t.Run("完全一致するラベルを返す（あいまい一致は無視）", func(t *testing.T) {
		api := mocks.NewMockGitHubClient()
		api.On("FetchLabels", mock.Anything, testRepo, "has conflicts").Return([]github.Label{
			{ID: "LA_old", Name: "has-conflicts-old"},
			{ID: "LA_1", Name: "has conflicts"},
		}, nil)

		label, err := NewResolver(api, nil).Resolve(context.Background(), testRepo, "has conflicts")
		require.NoError(t, err)
		assert.Equal(t, github.Label{ID: "LA_1", Name: "has conflicts"}, label)
		api.AssertExpectations(t)
	})

	t.Run("候補の先頭でも名前が違えば採用しない", func(t *testing.T) {
		api := mocks.NewMockGitHubClient().WithLabels(
			github.Label{ID: "LA_old", Name: "has-conflicts-old"},
			github.Label{ID: "LA_case", Name: "Has Conflicts"},
		)

		_, err := NewResolver(api, nil).Resolve(context.Background(), testRepo, "has conflicts")
		assert.ErrorIs(t, err, ErrLabelNotFound)
	})

	t.Run("候補が空ならNotFound", func(t *testing.T) {
		api := mocks.NewMockGitHubClient().WithLabels()

		_, err := NewResolver(api, nil).Resolve(context.Background(), testRepo, "has conflicts")
		assert.ErrorIs(t, err, ErrLabelNotFound)
		assert.Contains(t, err.Error(), `"has conflicts"`)
	})

	t.Run("ラベル名が空ならAPIを呼ばない", func(t *testing.T) {
		api := mocks.NewMockGitHubClient()

		_, err := NewResolver(api, nil).Resolve(context.Background(), testRepo, "")
		assert.ErrorIs(t, err, ErrEmptyLabelName)
		api.AssertNotCalled(t, "FetchLabels", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("フェッチエラーはそのまま返す", func(t *testing.T) {
		fetchErr := errors.New("bad credentials")
		api := mocks.NewMockGitHubClient()
		api.On("FetchLabels", mock.Anything, testRepo, "x").Return(nil, fetchErr)

		_, err := NewResolver(api, nil).Resolve(context.Background(), testRepo, "x")
		assert.ErrorIs(t, err, fetchErr)
		assert.NotErrorIs(t, err, ErrLabelNotFound)
	})
}
