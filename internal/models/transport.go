package models

type SignupReq struct {
	Name     string `json:"name" validate:"required,max=120"`
	Email    string `json:"email" validate:"required,email,max=120"`
	Password string `json:"password" validate:"required"`
}

type CharacterReq struct {
	Name        *string `json:"name" validate:"omitempty,max=250"`
	URLImg      *string `json:"url_img" validate:"omitempty,max=250"`
	Description *string `json:"description" validate:"omitempty,max=250"`
}

type PlanetReq struct {
	Name           *string `json:"name" validate:"omitempty,max=250"`
	URLImg         *string `json:"url_img" validate:"omitempty,max=250"`
	Description    *string `json:"description" validate:"omitempty,max=250"`
	Climate        *string `json:"climate" validate:"omitempty,max=250"`
	Diameter       *string `json:"diameter" validate:"omitempty,max=250"`
	OrbitalPeriod  *string `json:"orbital_period" validate:"omitempty,max=250"`
	RotationPeriod *string `json:"rotation_period" validate:"omitempty,max=250"`
}

type VehicleReq struct {
	Name                 *string `json:"name" validate:"omitempty,max=250"`
	URLImg               *string `json:"url_img" validate:"omitempty,max=250"`
	Description          *string `json:"description" validate:"omitempty,max=250"`
	Model                *string `json:"model" validate:"omitempty,max=250"`
	MaxAtmospheringSpeed *string `json:"max_atmosphering_speed" validate:"omitempty,max=250"`
}

type FavouriteReq struct {
	URL *string `json:"url" validate:"omitempty,max=250"`
}

type UserResp struct {
	ID    uint64 `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type CharacterResp struct {
	ID          uint64  `json:"id"`
	Name        *string `json:"name"`
	URLImg      *string `json:"url_img"`
	Description *string `json:"description"`
}

type PlanetResp struct {
	ID             uint64  `json:"id"`
	Name           *string `json:"name"`
	URLImg         *string `json:"url_img"`
	Description    *string `json:"description"`
	Climate        *string `json:"climate"`
	Diameter       *string `json:"diameter"`
	OrbitalPeriod  *string `json:"orbital_period"`
	RotationPeriod *string `json:"rotation_period"`
}

type VehicleResp struct {
	ID                   uint64  `json:"id"`
	Name                 *string `json:"name"`
	URLImg               *string `json:"url_img"`
	Description          *string `json:"description"`
	Model                *string `json:"model"`
	MaxAtmospheringSpeed *string `json:"max_atmosphering_speed"`
}

// FavouriteResp inlines the referenced character, planet or vehicle under Info.
type FavouriteResp struct {
	ID     uint64      `json:"id"`
	UserID uint64      `json:"user_id"`
	URL    *string     `json:"url"`
	Info   interface{} `json:"info"`
}

func (r CharacterReq) ToModel() *Character {
	return &Character{
		Name:        r.Name,
		URLImg:      r.URLImg,
		Description: r.Description,
	}
}

func (r PlanetReq) ToModel() *Planet {
	return &Planet{
		Name:           r.Name,
		URLImg:         r.URLImg,
		Description:    r.Description,
		Climate:        r.Climate,
		Diameter:       r.Diameter,
		OrbitalPeriod:  r.OrbitalPeriod,
		RotationPeriod: r.RotationPeriod,
	}
}

func (r VehicleReq) ToModel() *Vehicle {
	return &Vehicle{
		Name:                 r.Name,
		URLImg:               r.URLImg,
		Description:          r.Description,
		Model:                r.Model,
		MaxAtmospheringSpeed: r.MaxAtmospheringSpeed,
	}
}

func NewUserResp(u *User) UserResp {
	return UserResp{
		ID:    u.ID,
		Name:  u.Name,
		Email: u.Email,
	}
}

func NewCharacterResp(c *Character) CharacterResp {
	return CharacterResp{
		ID:          c.ID,
		Name:        c.Name,
		URLImg:      c.URLImg,
		Description: c.Description,
	}
}

func NewPlanetResp(p *Planet) PlanetResp {
	return PlanetResp{
		ID:             p.ID,
		Name:           p.Name,
		URLImg:         p.URLImg,
		Description:    p.Description,
		Climate:        p.Climate,
		Diameter:       p.Diameter,
		OrbitalPeriod:  p.OrbitalPeriod,
		RotationPeriod: p.RotationPeriod,
	}
}

func NewVehicleResp(v *Vehicle) VehicleResp {
	return VehicleResp{
		ID:                   v.ID,
		Name:                 v.Name,
		URLImg:               v.URLImg,
		Description:          v.Description,
		Model:                v.Model,
		MaxAtmospheringSpeed: v.MaxAtmospheringSpeed,
	}
}

func NewFavouriteResp(f *Favourite, info interface{}) FavouriteResp {
	return FavouriteResp{
		ID:     f.ID,
		UserID: f.UserID,
		URL:    f.URL,
		Info:   info,
	}
}

// MapResp projects every element of items with fn.
func MapResp[T any, R any](items []T, fn func(*T) R) []R {
	resp := make([]R, len(items))
	for i := range items {
		resp[i] = fn(&items[i])
	}
	return resp
}
