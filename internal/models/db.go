package models

import (
	"time"

	"github.com/pkg/errors"
)

var (
	ErrNoTarget          = errors.New("favourite references no character, planet or vehicle")
	ErrUnknownTargetKind = errors.New("unknown favourite target kind")
)

type TargetKind string

const (
	TargetCharacter TargetKind = "character"
	TargetPlanet    TargetKind = "planet"
	TargetVehicle   TargetKind = "vehicle"
)

// TargetKinds is the resolution order used when a favourite row has more than one key set.
var TargetKinds = []TargetKind{TargetCharacter, TargetPlanet, TargetVehicle}

type (
	GormForkedModel struct {
		ID        uint64 `gorm:"primarykey"`
		CreatedAt time.Time
		UpdatedAt time.Time
	}

	User struct {
		GormForkedModel
		Name     string `gorm:"size:120;not null"`
		Email    string `gorm:"size:120;unique;not null"`
		Password string `gorm:"not null"`
	}

	Character struct {
		GormForkedModel
		Name        *string `gorm:"size:250"`
		URLImg      *string `gorm:"column:url_img;size:250"`
		Description *string `gorm:"size:250"`
	}

	Planet struct {
		GormForkedModel
		Name           *string `gorm:"size:250"`
		URLImg         *string `gorm:"column:url_img;size:250"`
		Description    *string `gorm:"size:250"`
		Climate        *string `gorm:"size:250"`
		Diameter       *string `gorm:"size:250"`
		OrbitalPeriod  *string `gorm:"size:250"`
		RotationPeriod *string `gorm:"size:250"`
	}

	Vehicle struct {
		GormForkedModel
		Name                 *string `gorm:"size:250"`
		URLImg               *string `gorm:"column:url_img;size:250"`
		Description          *string `gorm:"size:250"`
		Model                *string `gorm:"size:250"`
		MaxAtmospheringSpeed *string `gorm:"size:250"`
	}

	// Favourite is stored with three nullable foreign keys. Use NewFavourite and Target
	// instead of touching the key fields directly.
	Favourite struct {
		GormForkedModel
		UserID      uint64     `gorm:"not null;index"`
		User        *User      `gorm:"constraint:OnDelete:RESTRICT"`
		URL         *string    `gorm:"column:url;size:250"`
		CharacterID *uint64    `gorm:"index"`
		Character   *Character `gorm:"constraint:OnDelete:RESTRICT"`
		PlanetID    *uint64    `gorm:"index"`
		Planet      *Planet    `gorm:"constraint:OnDelete:RESTRICT"`
		VehicleID   *uint64    `gorm:"index"`
		Vehicle     *Vehicle   `gorm:"constraint:OnDelete:RESTRICT"`
	}

	// FavouriteTarget is the entity a favourite points at.
	FavouriteTarget struct {
		Kind TargetKind
		ID   uint64
	}
)

// ParseTargetKind maps a route segment (characters, planets, vehicles) to its kind.
func ParseTargetKind(segment string) (TargetKind, error) {
	for _, kind := range TargetKinds {
		if kind.Plural() == segment {
			return kind, nil
		}
	}
	return "", errors.Wrap(ErrUnknownTargetKind, segment)
}

func (k TargetKind) Plural() string {
	return string(k) + "s"
}

// Column is the favourite foreign key column holding this kind.
func (k TargetKind) Column() string {
	return string(k) + "_id"
}

func NewFavourite(userID uint64, target FavouriteTarget, url *string) (*Favourite, error) {
	id := target.ID
	fav := Favourite{
		UserID: userID,
		URL:    url,
	}
	switch target.Kind {
	case TargetCharacter:
		fav.CharacterID = &id
	case TargetPlanet:
		fav.PlanetID = &id
	case TargetVehicle:
		fav.VehicleID = &id
	default:
		return nil, errors.Wrap(ErrUnknownTargetKind, string(target.Kind))
	}
	return &fav, nil
}

// Target resolves which entity the favourite points at. Rows with several keys set
// resolve in TargetKinds order.
func (f *Favourite) Target() (FavouriteTarget, error) {
	switch {
	case f.CharacterID != nil:
		return FavouriteTarget{Kind: TargetCharacter, ID: *f.CharacterID}, nil
	case f.PlanetID != nil:
		return FavouriteTarget{Kind: TargetPlanet, ID: *f.PlanetID}, nil
	case f.VehicleID != nil:
		return FavouriteTarget{Kind: TargetVehicle, ID: *f.VehicleID}, nil
	}
	return FavouriteTarget{}, errors.Wrapf(ErrNoTarget, "favourite %d", f.ID)
}
