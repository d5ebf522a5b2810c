package db

import (
	"database/sql"
	"time"
)

// Espacio is a row of espacios. Mapa holds the raw JSONB layout, NULL when none was saved.
type Espacio struct {
	ID             int64
	UsuarioID      int64
	Nombre         string
	Ubicacion      string
	Latitud        sql.NullFloat64
	Longitud       sql.NullFloat64
	Plazas         int
	Tipo           string
	TipoEstructura string
	Pisos          int
	Sotano         bool
	Modalidades    []string
	MetodosPago    []string
	Mapa           []byte
	CreadoEn       time.Time
}

type Franja struct {
	ID        int64
	EspacioID int64
	Dia       string
	Apertura  string
	Cierre    string
}

type Tarifa struct {
	ID           int64
	EspacioID    int64
	TipoVehiculo string
	Modalidad    string
	Precio       float64
}

type Vehiculo struct {
	ID        int64
	UsuarioID int64
	Matricula string
	Marca     string
	Modelo    string
	Tipo      string
	CreadoEn  time.Time
}

type Usuario struct {
	ID           int64
	Nombre       string
	Email        string
	Telefono     sql.NullString
	PasswordHash string
	Activo       bool
	CreadoEn     time.Time
}

// Token kinds stored in tokens.tipo.
const (
	TokenActivation = "activacion"
	TokenReset      = "recuperacion"
)

type Token struct {
	Token     string
	UsuarioID int64
	Tipo      string
	ExpiraEn  time.Time
}
