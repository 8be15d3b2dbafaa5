package loom_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/syssam/loom"
)

func TestConfigurationError(t *testing.T) {
	t.Run("Error", func(t *testing.T) {
		err := loom.NewConfigurationError("Post.title", "invalid value %q", "x")
		assert.Equal(t, `loom: Post.title: invalid value "x"`, err.Error())
	})

	t.Run("NoPath", func(t *testing.T) {
		err := loom.NewConfigurationError("", "no models")
		assert.Equal(t, "loom: no models", err.Error())
	})

	t.Run("Is", func(t *testing.T) {
		err := loom.NewConfigurationError("Post", "bad")
		assert.True(t, errors.Is(err, loom.ErrInvalidConfiguration))
		assert.False(t, errors.Is(err, loom.ErrInvalidInput))
	})

	t.Run("Wrap", func(t *testing.T) {
		cause := errors.New("boom")
		err := loom.WrapConfigurationError("Post.author", cause, "field constructor failed")
		require.Error(t, err)
		assert.True(t, errors.Is(err, cause))
		assert.Equal(t, "loom: Post.author: field constructor failed: boom", err.Error())
		assert.NoError(t, loom.WrapConfigurationError("Post", nil, "unused"))
	})

	t.Run("IsConfigurationError", func(t *testing.T) {
		err := loom.NewConfigurationError("User", "bad")
		wrapped := fmt.Errorf("wrapper: %w", err)
		assert.True(t, loom.IsConfigurationError(wrapped))
		assert.Equal(t, "User", loom.ConfigurationPath(wrapped))
		assert.False(t, loom.IsConfigurationError(errors.New("other")))
		assert.False(t, loom.IsConfigurationError(nil))
		assert.Empty(t, loom.ConfigurationPath(errors.New("other")))
	})
}

func TestUserInputError(t *testing.T) {
	err := loom.NewUserInputError("Post.id", "%q is not a valid uuid", "x")
	assert.Equal(t, `loom: input error on Post.id: "x" is not a valid uuid`, err.Error())
	assert.True(t, errors.Is(err, loom.ErrInvalidInput))
	assert.True(t, loom.IsUserInputError(fmt.Errorf("wrap: %w", err)))
	assert.False(t, loom.IsUserInputError(nil))
}

func TestOmit(t *testing.T) {
	var nilOmit *loom.Omit
	assert.False(t, nilOmit.Has(loom.OpQuery))
	assert.True(t, loom.OmitAll().Has(loom.OpDelete))
	o := loom.OmitOps(loom.OpCreate, loom.OpUpdate)
	assert.True(t, o.Has(loom.OpCreate))
	assert.False(t, o.Has(loom.OpQuery))
}

func TestOmitUnmarshalYAML(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    loom.Omit
		wantErr bool
	}{
		{name: "true", in: "omit: true", want: loom.Omit{All: true}},
		{name: "false", in: "omit: false", want: loom.Omit{}},
		{name: "list", in: "omit: [create, delete]", want: loom.Omit{Ops: []loom.Operation{loom.OpCreate, loom.OpDelete}}},
		{name: "unknown op", in: "omit: [explode]", wantErr: true},
		{name: "map", in: "omit: {a: 1}", wantErr: true},
		{name: "string", in: "omit: sometimes", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var v struct {
				Omit *loom.Omit `yaml:"omit"`
			}
			err := yaml.Unmarshal([]byte(tt.in), &v)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.NotNil(t, v.Omit)
			assert.Equal(t, tt.want, *v.Omit)
		})
	}
}

func TestStaticCacheHint(t *testing.T) {
	fn := loom.StaticCacheHint(loom.CacheHint{MaxAge: 60, Scope: loom.CacheScopePublic})
	assert.Equal(t, 60, fn(loom.CacheHintArgs{}).MaxAge)
	assert.Equal(t, loom.CacheScopePublic, fn(loom.CacheHintArgs{Meta: true}).Scope)
}
