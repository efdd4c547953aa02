package models

import (
	"encoding/json"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T {
	return &v
}

func TestParseTargetKind(t *testing.T) {
	for _, kind := range TargetKinds {
		got, err := ParseTargetKind(kind.Plural())
		require.NoError(t, err)
		assert.Equal(t, kind, got)
	}

	_, err := ParseTargetKind("starships")
	assert.True(t, errors.Is(err, ErrUnknownTargetKind))
}

func TestNewFavourite(t *testing.T) {
	t.Run("sets exactly one key", func(t *testing.T) {
		fav, err := NewFavourite(1, FavouriteTarget{Kind: TargetPlanet, ID: 7}, ptr("https://swapi.dev/planets/7"))
		require.NoError(t, err)

		assert.Equal(t, uint64(1), fav.UserID)
		assert.Nil(t, fav.CharacterID)
		assert.Nil(t, fav.VehicleID)
		require.NotNil(t, fav.PlanetID)
		assert.Equal(t, uint64(7), *fav.PlanetID)

		target, err := fav.Target()
		require.NoError(t, err)
		assert.Equal(t, FavouriteTarget{Kind: TargetPlanet, ID: 7}, target)
	})

	t.Run("unknown kind", func(t *testing.T) {
		_, err := NewFavourite(1, FavouriteTarget{Kind: "starship", ID: 7}, nil)
		assert.True(t, errors.Is(err, ErrUnknownTargetKind))
	})
}

func TestFavourite_Target(t *testing.T) {
	tests := []struct {
		name string
		fav  Favourite
		want FavouriteTarget
	}{
		{
			name: "character wins over planet and vehicle",
			fav:  Favourite{CharacterID: ptr(uint64(1)), PlanetID: ptr(uint64(2)), VehicleID: ptr(uint64(3))},
			want: FavouriteTarget{Kind: TargetCharacter, ID: 1},
		},
		{
			name: "planet wins over vehicle",
			fav:  Favourite{PlanetID: ptr(uint64(2)), VehicleID: ptr(uint64(3))},
			want: FavouriteTarget{Kind: TargetPlanet, ID: 2},
		},
		{
			name: "vehicle only",
			fav:  Favourite{VehicleID: ptr(uint64(3))},
			want: FavouriteTarget{Kind: TargetVehicle, ID: 3},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.fav.Target()
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	t.Run("no key set", func(t *testing.T) {
		_, err := (&Favourite{}).Target()
		assert.True(t, errors.Is(err, ErrNoTarget))
	})
}

func TestUserResp_OmitsPassword(t *testing.T) {
	u := User{Name: "Ana", Email: "a@x.com", Password: "p"}
	u.ID = 1

	b, err := json.Marshal(NewUserResp(&u))
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":1,"name":"Ana","email":"a@x.com"}`, string(b))
}

func TestPlanetResp_Keys(t *testing.T) {
	p := PlanetReq{Name: ptr("Tatooine"), Climate: ptr("arid")}.ToModel()
	p.ID = 3

	b, err := json.Marshal(NewPlanetResp(p))
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"id": 3,
		"name": "Tatooine",
		"url_img": null,
		"description": null,
		"climate": "arid",
		"diameter": null,
		"orbital_period": null,
		"rotation_period": null
	}`, string(b))
}

func TestFavouriteResp_InlinesInfo(t *testing.T) {
	v := VehicleReq{Name: ptr("Sand Crawler"), MaxAtmospheringSpeed: ptr("30")}.ToModel()
	v.ID = 4
	fav, err := NewFavourite(2, FavouriteTarget{Kind: TargetVehicle, ID: v.ID}, nil)
	require.NoError(t, err)
	fav.ID = 9

	b, err := json.Marshal(NewFavouriteResp(fav, NewVehicleResp(v)))
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"id": 9,
		"user_id": 2,
		"url": null,
		"info": {
			"id": 4,
			"name": "Sand Crawler",
			"url_img": null,
			"description": null,
			"model": null,
			"max_atmosphering_speed": "30"
		}
	}`, string(b))
}

func TestMapResp(t *testing.T) {
	chars := []Character{
		{GormForkedModel: GormForkedModel{ID: 1}, Name: ptr("Luke")},
		{GormForkedModel: GormForkedModel{ID: 2}, Name: ptr("Leia")},
	}

	got := MapResp(chars, NewCharacterResp)
	require.Len(t, got, 2)
	assert.Equal(t, uint64(2), got[1].ID)
	assert.Equal(t, "Leia", *got[1].Name)
}
