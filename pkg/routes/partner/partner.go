package partner

import (
	"net/http"
	"strconv"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectoinject"
	"github.com/labstack/echo/v4"

	"github.com/Ramsey-B/fern/internal/repositories/partnercompany"
	"github.com/Ramsey-B/fern/pkg/models"
	"github.com/Ramsey-B/fern/pkg/utils"
)

// Register registers partner company routes
func Register(g *echo.Group) {
	g.POST("", CreatePartnerCompany)
	g.GET("", SearchPartnerCompanies)
	g.GET("/:id", GetPartnerCompany)
	g.PATCH("/:id", UpdatePartnerCompany)
	g.DELETE("/:id", DeletePartnerCompany)
}

// CreatePartnerCompany registers a new partner company
func CreatePartnerCompany(c echo.Context) error {
	ctx := c.Request().Context()

	req, err := utils.BindRequest[models.CreatePartnerCompanyRequest](c)
	if err != nil {
		return err
	}

	ctx, repo, err := ectoinject.GetContext[*partnercompany.Repository](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "service unavailable")
	}

	partner, err := repo.Create(ctx, &req)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, partner)
}

// SearchPartnerCompanies lists partner companies filtered by name and status
func SearchPartnerCompanies(c echo.Context) error {
	ctx := c.Request().Context()

	name := c.QueryParam("name")
	status := models.PartnerCompanyStatus(c.QueryParam("status"))
	page, _ := strconv.Atoi(c.QueryParam("page"))
	pageSize, _ := strconv.Atoi(c.QueryParam("page_size"))

	ctx, repo, err := ectoinject.GetContext[*partnercompany.Repository](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "service unavailable")
	}

	result, err := repo.Search(ctx, name, status, page, pageSize)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, result)
}

// GetPartnerCompany gets a partner company by id
func GetPartnerCompany(c echo.Context) error {
	ctx := c.Request().Context()
	id := c.Param("id")

	ctx, repo, err := ectoinject.GetContext[*partnercompany.Repository](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "service unavailable")
	}

	partner, err := repo.Get(ctx, id)
	if err != nil {
		return err
	}
	if partner == nil {
		return httperror.NewHTTPError(http.StatusNotFound, "partner company not found")
	}

	return c.JSON(http.StatusOK, partner)
}

// UpdatePartnerCompany updates a partner company
func UpdatePartnerCompany(c echo.Context) error {
	ctx := c.Request().Context()
	id := c.Param("id")

	req, err := utils.BindRequest[models.UpdatePartnerCompanyRequest](c)
	if err != nil {
		return err
	}

	ctx, repo, err := ectoinject.GetContext[*partnercompany.Repository](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "service unavailable")
	}

	partner, err := repo.Update(ctx, id, &req)
	if err != nil {
		return err
	}
	if partner == nil {
		return httperror.NewHTTPError(http.StatusNotFound, "partner company not found")
	}

	return c.JSON(http.StatusOK, partner)
}

// DeletePartnerCompany soft-deletes a partner company
func DeletePartnerCompany(c echo.Context) error {
	ctx := c.Request().Context()
	id := c.Param("id")

	ctx, repo, err := ectoinject.GetContext[*partnercompany.Repository](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "service unavailable")
	}

	if err := repo.Delete(ctx, id); err != nil {
		return err
	}

	return c.NoContent(http.StatusNoContent)
}
