package element

import (
	"fmt"

	"github.com/notargets/simplexdg/utils"
)

// Cache shares reference elements by (dim, N). Concurrent first use of a
// key builds the element once.
type Cache struct {
	opts  []Option
	elems *utils.Memo[*ReferenceElement]
}

func NewCache(opts ...Option) *Cache {
	return &Cache{
		opts:  opts,
		elems: utils.NewMemo[*ReferenceElement](),
	}
}

func (c *Cache) Get(dim, N int) (*ReferenceElement, error) {
	key := fmt.Sprintf("%d/%d", dim, N)
	return c.elems.Get(key, func() (*ReferenceElement, error) {
		return Build(dim, N, c.opts...)
	})
}

func (c *Cache) Len() int { return c.elems.Len() }
