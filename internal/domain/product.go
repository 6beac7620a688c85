package domain

import (
	"database/sql/driver"
	"errors"
	"time"

	jsoniter "github.com/json-iterator/go"
)

// ImageList holds the product's self-contained encoded images (data URLs)
// as an ordered JSON array in a single text column.
type ImageList []string

func (l ImageList) Value() (driver.Value, error) {
	if l == nil {
		l = ImageList{}
	}
	return jsoniter.MarshalToString([]string(l))
}

func (l *ImageList) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*l = ImageList{}
		return nil
	case string:
		return jsoniter.UnmarshalFromString(v, (*[]string)(l))
	case []byte:
		return jsoniter.Unmarshal(v, (*[]string)(l))
	default:
		return errors.New("imagens: unsupported column type")
	}
}

// Product is a catalog document. DocID is the opaque store identifier used
// for update/delete; ID is the business id shown to customers and used for
// default display ordering. Wire field names keep the original document
// schema (Portuguese).
type Product struct {
	DocID       string    `gorm:"primaryKey;size:32" json:"docId" form:"docId"`
	ID          int64     `gorm:"index;column:id" json:"id" form:"id"`
	Name        string    `gorm:"index;column:nome" json:"nome" form:"nome"`
	Price       float64   `gorm:"column:preco" json:"preco" form:"preco"`
	Category    string    `gorm:"size:64;index;column:categoria" json:"categoria" form:"categoria"`
	Images      ImageList `gorm:"type:text;column:imagens" json:"imagens"`
	Featured    bool      `gorm:"column:destaque" json:"destaque" form:"destaque"`
	Description string    `gorm:"column:descricao" json:"descricao" form:"descricao"`
	CreatedAt   time.Time `gorm:"column:criado_em" json:"criadoEm"`
	UpdatedAt   time.Time `gorm:"column:atualizado_em" json:"atualizadoEm"`
}

// TableName Specify table name
func (Product) TableName() string {
	return "produtos"
}

// FirstImage returns the image used for cart lines and list thumbnails.
func (p Product) FirstImage() string {
	if len(p.Images) == 0 {
		return ""
	}
	return p.Images[0]
}
