package handler

import (
	"orbitcloud/internal/catalog"

	"github.com/gin-gonic/gin"
)

type ProductHandler struct {
	products catalog.Repository
}

func NewProductHandler(products catalog.Repository) *ProductHandler {
	return &ProductHandler{products: products}
}

// List returns the full catalog grouped by category.
func (h *ProductHandler) List(c *gin.Context) {
	respondData(c, h.products.All())
}
