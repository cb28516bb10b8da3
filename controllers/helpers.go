package controllers

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/mkarras/kindertrack/utils"
)

// parseIDParam reads a positive integer path parameter.
func parseIDParam(ctx *gin.Context, name string) (uint, bool) {
	raw := strings.TrimSpace(ctx.Param(name))
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

// optionalText sanitizes an optional free-text field while keeping the
// nil/empty distinction: nil means the field was absent from the payload, and
// only absence preserves a stored value.
func optionalText(p *string) *string {
	if p == nil {
		return nil
	}
	clean := utils.CleanText(*p)
	return &clean
}

// lockForUpdate adds a FOR UPDATE row lock where the dialect supports it.
// sqlite (used by the tests) has no row locks and a single writer, so the
// plain query is equivalent there.
func lockForUpdate(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "sqlite" {
		return tx
	}
	return tx.Clauses(clause.Locking{Strength: "UPDATE"})
}
