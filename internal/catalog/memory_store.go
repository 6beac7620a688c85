package catalog

import (
	"context"
	"sync"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/maosdefada/loja/internal/domain"
	"github.com/spf13/cast"
)

// MemoryStore is an in-process Store used by tests and by
// `database.type: memory` development runs. Semantics match GormStore,
// including max+1 business id assignment under the same lock as the insert.
type MemoryStore struct {
	mu   sync.Mutex
	docs map[string]domain.Product
	node *snowflake.Node
}

var _ Store = (*MemoryStore)(nil)

func NewMemoryStore() *MemoryStore {
	node, _ := snowflake.NewNode(2)
	return &MemoryStore{docs: make(map[string]domain.Product), node: node}
}

func (s *MemoryStore) List(_ context.Context) ([]domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	products := make([]domain.Product, 0, len(s.docs))
	for _, p := range s.docs {
		products = append(products, p)
	}
	// ascending by business id, the ordering List promises
	for i := 1; i < len(products); i++ {
		for j := i; j > 0 && products[j-1].ID > products[j].ID; j-- {
			products[j-1], products[j] = products[j], products[j-1]
		}
	}
	return products, nil
}

func (s *MemoryStore) Get(_ context.Context, docID string) (*domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.docs[docID]
	if !ok {
		return nil, ErrNotFound
	}
	return &p, nil
}

func (s *MemoryStore) Add(_ context.Context, p *domain.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	var maxID int64
	for _, doc := range s.docs {
		if doc.ID > maxID {
			maxID = doc.ID
		}
	}
	p.DocID = s.node.Generate().String()
	p.ID = maxID + 1
	now := time.Now()
	p.CreatedAt = now
	p.UpdatedAt = now
	s.docs[p.DocID] = *p
	return nil
}

func (s *MemoryStore) Update(_ context.Context, docID string, fields map[string]interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.docs[docID]
	if !ok {
		return ErrNotFound
	}
	for k, v := range fields {
		switch k {
		case "nome":
			p.Name = cast.ToString(v)
		case "preco":
			p.Price = cast.ToFloat64(v)
		case "categoria":
			p.Category = cast.ToString(v)
		case "imagens":
			if imgs, ok := v.(domain.ImageList); ok {
				p.Images = imgs
			} else {
				p.Images = cast.ToStringSlice(v)
			}
		case "destaque":
			p.Featured = cast.ToBool(v)
		case "descricao":
			p.Description = cast.ToString(v)
		}
	}
	p.UpdatedAt = time.Now()
	s.docs[docID] = p
	return nil
}

func (s *MemoryStore) Delete(_ context.Context, docID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.docs[docID]; !ok {
		return ErrNotFound
	}
	delete(s.docs, docID)
	return nil
}
