package handlers

import (
	"net/http"

	"github.com/SscSPs/medisave/internal/core/domain"
	"github.com/SscSPs/medisave/internal/dto"
	"github.com/gin-gonic/gin"
)

func registerCategoryRoutes(rg *gin.RouterGroup) {
	categories := rg.Group("/categories")
	{
		categories.GET("", listCategories)
		categories.GET("/:id", getCategory)
	}
}

// listCategories godoc
// @Summary List expense categories
// @Description Returns the five categories in display order
// @Tags categories
// @Produce json
// @Success 200 {array} dto.CategoryResponse
// @Router /categories [get]
func listCategories(c *gin.Context) {
	cats := domain.Categories()
	res := make([]dto.CategoryResponse, len(cats))
	for i, d := range cats {
		res[i] = dto.ToCategoryResponse(d)
	}
	c.JSON(http.StatusOK, res)
}

// getCategory godoc
// @Summary Describe a category
// @Description Unknown ids are described by the "Unknown" placeholder
// @Tags categories
// @Produce json
// @Param id path string true "Category ID"
// @Success 200 {object} dto.CategoryResponse
// @Router /categories/{id} [get]
func getCategory(c *gin.Context) {
	c.JSON(http.StatusOK, dto.ToCategoryResponse(domain.DescribeCategory(domain.Category(c.Param("id")))))
}
