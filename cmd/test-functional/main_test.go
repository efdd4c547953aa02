//go:build functional

package test_functional

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type MsgResp struct {
	Msg string `json:"msg"`
}

func post(ctx context.Context, path, body string) (*resty.Response, error) {
	u := AppBaseURL
	u.Path = path
	return resty.New().
		R().
		SetHeader("Content-Type", "application/json").
		SetContext(ctx).
		SetResult(&MsgResp{}).
		SetError(&MsgResp{}).
		SetBody(body).
		Post(u.String())
}

func TestSignup(t *testing.T) {
	t.Run("successful signup", func(t *testing.T) {
		defer FlushDB()

		ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
		defer cancel()

		resp, err := post(ctx, "/signup", `{"name": "Ana", "email": "a@x.com", "password": "111111111111"}`)
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode())
		assert.Equal(t, "The user was added", resp.Result().(*MsgResp).Msg)

		var (
			id   uint64
			hash string
		)
		err = DBConn.QueryRow(ctx, "SELECT id, password FROM users WHERE email=$1", "a@x.com").Scan(&id, &hash)
		require.NoError(t, err)
		assert.Equal(t, uint64(1), id)
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(hash), []byte("111111111111")))

		resp, err = post(ctx, "/signup", `{"name": "Ana", "email": "a@x.com", "password": "2"}`)
		require.NoError(t, err)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode())
		assert.Equal(t, "There is a user with that email", resp.Error().(*MsgResp).Msg)
	})

	t.Run("bad body", func(t *testing.T) {
		defer FlushDB()

		ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
		defer cancel()

		resp, err := post(ctx, "/signup", `{"something": "???"}`)
		require.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode())
	})
}

func TestFavouritesFlow(t *testing.T) {
	defer FlushDB()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*10)
	defer cancel()

	_, err := DBConn.Exec(ctx, "INSERT INTO users (name, email, password) VALUES ('Ana', 'a@x.com', 'hash')")
	require.NoError(t, err)
	_, err = DBConn.Exec(ctx, "INSERT INTO planets (name, climate) VALUES ('Hoth', 'frozen')")
	require.NoError(t, err)

	resp, err := post(ctx, "/user/1/favorites/planets/1", `{"url": "https://swapi.dev/planets/4"}`)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode())
	assert.Equal(t, "Favorite planet added", resp.Result().(*MsgResp).Msg)

	resp, err = post(ctx, "/user/1/favorites/characters/1", "")
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode())

	type favourite struct {
		ID   uint64 `json:"id"`
		URL  string `json:"url"`
		Info struct {
			Name    string `json:"name"`
			Climate string `json:"climate"`
		} `json:"info"`
	}
	type favouritesResp struct {
		Msg       string      `json:"msg"`
		Favourite []favourite `json:"favourite"`
	}

	listURL := AppBaseURL
	listURL.Path = "/user/1/favorites"
	listResp, err := resty.New().R().SetContext(ctx).SetResult(&favouritesResp{}).Get(listURL.String())
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, listResp.StatusCode())

	got := listResp.Result().(*favouritesResp)
	require.Len(t, got.Favourite, 1)
	assert.Equal(t, "https://swapi.dev/planets/4", got.Favourite[0].URL)
	assert.Equal(t, "Hoth", got.Favourite[0].Info.Name)
	assert.Equal(t, "frozen", got.Favourite[0].Info.Climate)

	deleteURL := AppBaseURL
	deleteURL.Path = "/user/1/favorites/planets/1"
	for _, want := range []int{http.StatusOK, http.StatusNotFound} {
		delResp, err := resty.New().R().SetContext(ctx).Delete(deleteURL.String())
		require.NoError(t, err)
		assert.Equal(t, want, delResp.StatusCode())
	}
}
