package catalog

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/maosdefada/loja/internal/domain"
	"gorm.io/gorm"
)

// GormStore persists the catalog collection in a relational table through
// gorm. Document ids are snowflakes so they stay opaque and unrelated to the
// business id sequence.
type GormStore struct {
	db   *gorm.DB
	node *snowflake.Node
}

var _ Store = (*GormStore)(nil)

func NewGormStore(db *gorm.DB) (*GormStore, error) {
	node, err := snowflake.NewNode(1)
	if err != nil {
		return nil, err
	}
	return &GormStore{db: db, node: node}, nil
}

func (s *GormStore) List(ctx context.Context) ([]domain.Product, error) {
	var products []domain.Product
	err := s.db.WithContext(ctx).Order("id asc").Find(&products).Error
	if err != nil {
		return nil, err
	}
	return products, nil
}

func (s *GormStore) Get(ctx context.Context, docID string) (*domain.Product, error) {
	var p domain.Product
	err := s.db.WithContext(ctx).Where("doc_id = ?", docID).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Add computes the next business id and creates the document in a single
// transaction, so two concurrent submissions cannot be assigned the same id.
func (s *GormStore) Add(ctx context.Context, p *domain.Product) error {
	p.DocID = s.node.Generate().String()
	now := time.Now()
	p.CreatedAt = now
	p.UpdatedAt = now
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var maxID int64
		if err := tx.Model(&domain.Product{}).
			Select("COALESCE(MAX(id), 0)").Scan(&maxID).Error; err != nil {
			return err
		}
		p.ID = maxID + 1
		return tx.Create(p).Error
	})
}

func (s *GormStore) Update(ctx context.Context, docID string, fields map[string]interface{}) error {
	updates := make(map[string]interface{}, len(fields)+1)
	for k, v := range fields {
		updates[k] = v
	}
	updates["atualizado_em"] = time.Now()
	res := s.db.WithContext(ctx).Model(&domain.Product{}).
		Where("doc_id = ?", docID).Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *GormStore) Delete(ctx context.Context, docID string) error {
	res := s.db.WithContext(ctx).Where("doc_id = ?", docID).Delete(&domain.Product{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
