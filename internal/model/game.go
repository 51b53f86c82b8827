// Package model defines the data structures used throughout the application.
package model

// DefaultDescription is stored when a game is created or replaced without a description.
const DefaultDescription = "Sin descripción disponible"

// Game is a single catalog record.
//
// The JSON names are Spanish because existing clients already speak them;
// they must not be renamed. ImagePath and WikipediaURL are pointers so that a
// missing value is stored (and returned) as NULL rather than "".
type Game struct {
	ID           int64   `json:"id"            db:"id"`
	Name         string  `json:"nombre"        db:"nombre"`
	Genre        string  `json:"genero"        db:"genero"`
	Platform     string  `json:"plataforma"    db:"plataforma"`
	Year         int     `json:"anio"          db:"anio"`
	Description  string  `json:"descripcion"   db:"descripcion"`
	ImagePath    *string `json:"imagen_ruta"   db:"imagen_ruta"`
	WikipediaURL *string `json:"wikipedia_url" db:"wikipedia_url"`
}

// GameInput is the write payload for create and full-replace update.
//
// Every field is a pointer so the service can tell "absent" from a zero value:
// a nil Year means the client omitted anio, while 0 is a (strange but) present year.
type GameInput struct {
	Name         *string `json:"nombre"`
	Genre        *string `json:"genero"`
	Platform     *string `json:"plataforma"`
	Year         *int    `json:"anio"`
	Description  *string `json:"descripcion"`
	ImagePath    *string `json:"imagen_ruta"`
	WikipediaURL *string `json:"wikipedia_url"`
}
