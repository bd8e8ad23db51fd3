package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/procurement-api/internal/application/category"
	"github.com/jhoicas/procurement-api/internal/application/dto"
)

// CategoryHandler expone el árbol de categorías.
type CategoryHandler struct {
	uc *category.CategoryUseCase
}

// NewCategoryHandler construye el handler.
func NewCategoryHandler(uc *category.CategoryUseCase) *CategoryHandler {
	return &CategoryHandler{uc: uc}
}

// Create godoc
// @Summary      Crear categoría
// @Description  Nivel y ruta se calculan a partir del padre. El nombre es único entre hermanos.
// @Tags         categories
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateCategoryRequest  true  "Datos de la categoría"
// @Success      201   {object}  dto.CategoryResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/categories [post]
func (h *CategoryHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateCategoryRequest
	if err := parseBody(c, &in); err != nil {
		return handleError(c, err)
	}
	out, err := h.uc.Create(c.UserContext(), in)
	if err != nil {
		return handleError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List godoc
// @Summary      Listar categorías
// @Tags         categories
// @Security     Bearer
// @Produce      json
// @Param        parent_id    query  string  false  "Solo hijos de este padre"
// @Param        root_only    query  bool    false  "Solo raíces"
// @Param        active_only  query  bool    false  "Solo activas"
// @Param        limit        query  int     false  "Límite"  default(20)
// @Param        offset       query  int     false  "Offset"  default(0)
// @Success      200  {object}  dto.CategoryListResponse
// @Router       /api/categories [get]
func (h *CategoryHandler) List(c *fiber.Ctx) error {
	var in dto.CategoryListRequest
	if err := parseQuery(c, &in); err != nil {
		return handleError(c, err)
	}
	out, err := h.uc.List(c.UserContext(), in)
	if err != nil {
		return handleError(c, err)
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener categoría
// @Tags         categories
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la categoría"
// @Success      200  {object}  dto.CategoryResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/categories/{id} [get]
func (h *CategoryHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return handleError(c, err)
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Actualizar categoría
// @Description  Renombrar o mover recalcula nivel y ruta de todo el subárbol. Rechaza ciclos.
// @Tags         categories
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la categoría"
// @Param        body  body  dto.UpdateCategoryRequest  true  "Cambios"
// @Success      200   {object}  dto.CategoryResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/categories/{id} [put]
func (h *CategoryHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateCategoryRequest
	if err := parseBody(c, &in); err != nil {
		return handleError(c, err)
	}
	out, err := h.uc.Update(c.UserContext(), c.Params("id"), in)
	if err != nil {
		return handleError(c, err)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Desactivar categoría
// @Description  Sin force falla si hay hijos o productos activos; con force desactiva todo el subárbol.
// @Tags         categories
// @Security     Bearer
// @Param        id     path   string  true   "ID de la categoría"
// @Param        force  query  bool    false  "Desactivar en cascada"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/categories/{id} [delete]
func (h *CategoryHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.UserContext(), c.Params("id"), c.QueryBool("force", false)); err != nil {
		return handleError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// GetTree godoc
// @Summary      Subárbol de una categoría
// @Tags         categories
// @Security     Bearer
// @Produce      json
// @Param        id           path   string  true   "ID de la categoría"
// @Param        depth        query  int     false  "Profundidad máxima"  default(5)
// @Param        active_only  query  bool    false  "Omitir inactivas"
// @Success      200  {object}  dto.CategoryTreeResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/categories/{id}/tree [get]
func (h *CategoryHandler) GetTree(c *fiber.Ctx) error {
	out, err := h.uc.GetTree(c.UserContext(), c.Params("id"), c.QueryInt("depth", 0), c.QueryBool("active_only", false))
	if err != nil {
		return handleError(c, err)
	}
	return c.JSON(out)
}

// Ancestors godoc
// @Summary      Ancestros de una categoría (raíz primero)
// @Tags         categories
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la categoría"
// @Success      200  {array}   dto.CategoryResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/categories/{id}/ancestors [get]
func (h *CategoryHandler) Ancestors(c *fiber.Ctx) error {
	out, err := h.uc.Ancestors(c.UserContext(), c.Params("id"))
	if err != nil {
		return handleError(c, err)
	}
	return c.JSON(out)
}
