// Package company exposes the enrichment data persisted for companies:
// profile, disclosure history, financial statement snapshots, and a manual
// resync trigger.
package company

import (
	"net/http"
	"strconv"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectoinject"
	"github.com/labstack/echo/v4"

	"github.com/Ramsey-B/fern/internal/repositories/companyprofile"
	"github.com/Ramsey-B/fern/internal/repositories/disclosure"
	"github.com/Ramsey-B/fern/internal/repositories/financialstatement"
	"github.com/Ramsey-B/fern/pkg/models"
	"github.com/Ramsey-B/fern/pkg/syncer"
	"github.com/Ramsey-B/fern/pkg/utils"
)

// Register registers company enrichment-data routes
func Register(g *echo.Group) {
	g.GET("/:corpCode", GetCompanyProfile)
	g.GET("/:corpCode/disclosures", ListDisclosures)
	g.GET("/:corpCode/statements", GetStatementUnit)
	g.POST("/:corpCode/resync", ResyncCompany)
}

// GetCompanyProfile gets a company profile by corp code
func GetCompanyProfile(c echo.Context) error {
	ctx := c.Request().Context()
	corpCode := c.Param("corpCode")

	ctx, repo, err := ectoinject.GetContext[*companyprofile.Repository](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "service unavailable")
	}

	profile, err := repo.GetByCorpCode(ctx, corpCode)
	if err != nil {
		return err
	}
	if profile == nil {
		return httperror.NewHTTPError(http.StatusNotFound, "company profile not found")
	}

	return c.JSON(http.StatusOK, profile)
}

// ListDisclosures lists a company's disclosures, newest first
func ListDisclosures(c echo.Context) error {
	ctx := c.Request().Context()
	corpCode := c.Param("corpCode")

	page, _ := strconv.Atoi(c.QueryParam("page"))
	pageSize, _ := strconv.Atoi(c.QueryParam("page_size"))

	ctx, repo, err := ectoinject.GetContext[*disclosure.Repository](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "service unavailable")
	}

	result, err := repo.ListByCorpCode(ctx, corpCode, page, pageSize)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, result)
}

// GetStatementUnit gets all line items for one financial statement snapshot
func GetStatementUnit(c echo.Context) error {
	ctx := c.Request().Context()

	unit := models.StatementUnit{
		CorpCode:   c.Param("corpCode"),
		BsnsYear:   c.QueryParam("bsns_year"),
		ReportCode: c.QueryParam("reprt_code"),
	}
	if err := utils.ValidateValue(unit.BsnsYear, "required,len=4"); err != nil {
		return httperror.NewHTTPError(http.StatusBadRequest, "bsns_year is required (YYYY)")
	}
	if err := utils.ValidateValue(unit.ReportCode, "required,len=5"); err != nil {
		return httperror.NewHTTPError(http.StatusBadRequest, "reprt_code is required")
	}

	ctx, repo, err := ectoinject.GetContext[*financialstatement.Repository](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "service unavailable")
	}

	items, err := repo.ListByUnit(ctx, unit)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, models.FinancialStatementListResponse{
		Unit:  unit,
		Items: items,
	})
}

// ResyncCompany re-runs the full enrichment pipeline for a corp code
func ResyncCompany(c echo.Context) error {
	ctx := c.Request().Context()
	corpCode := c.Param("corpCode")

	if err := utils.ValidateValue(corpCode, "required,len=8"); err != nil {
		return httperror.NewHTTPError(http.StatusBadRequest, "corp code must be 8 characters")
	}

	ctx, orchestrator, err := ectoinject.GetContext[*syncer.Orchestrator](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "service unavailable")
	}

	profile, disclosures, financials := orchestrator.Enrich(ctx, corpCode)
	if profile == nil {
		return httperror.NewHTTPError(http.StatusBadGateway, "profile could not be synchronized")
	}

	return c.JSON(http.StatusOK, map[string]any{
		"corp_code":           corpCode,
		"profile_source":      profile.Source,
		"disclosures_synced":  disclosures.Synced,
		"disclosures_skipped": disclosures.Skipped,
		"statements_synced":   financials.Synced,
		"statements_deleted":  financials.Deleted,
	})
}
