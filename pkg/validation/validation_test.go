package validation

import (
	"net/http"
	"testing"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ramsey-B/bramble/pkg/models"
)

func strPtr(s string) *string { return &s }

func TestSupplierLEI(t *testing.T) {
	tests := []struct {
		name    string
		lei     string
		wantErr bool
	}{
		{name: "valid 20-char LEI", lei: "5493001KJTIIGC8Y1R12", wantErr: false},
		{name: "too short", lei: "ABC123", wantErr: true},
		{name: "lowercase rejected", lei: "5493001kjtiigc8y1r12", wantErr: true},
		{name: "21 chars rejected", lei: "5493001KJTIIGC8Y1R123", wantErr: true},
		{name: "special chars rejected", lei: "5493001KJTIIGC8Y1R1-", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := models.UpdateSupplierRequest{LEI: strPtr(tt.lei)}
			err := Struct(req)
			if tt.wantErr {
				require.Error(t, err)
				assert.Equal(t, http.StatusBadRequest, httperror.GetStatusCode(err))
				herr := httperror.ToHTTPError(err)
				assert.Equal(t, "lei", herr.Meta["field"])
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestSupplierGS1Prefix(t *testing.T) {
	tests := []struct {
		name    string
		prefix  string
		wantErr bool
	}{
		{name: "6 digits accepted", prefix: "123456", wantErr: false},
		{name: "12 digits accepted", prefix: "123456789012", wantErr: false},
		{name: "2 digits rejected", prefix: "12", wantErr: true},
		{name: "14 digits rejected", prefix: "12345678901234", wantErr: true},
		{name: "letters rejected", prefix: "12345a", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := models.UpdateSupplierRequest{GS1CompanyPrefix: strPtr(tt.prefix)}
			err := Struct(req)
			if tt.wantErr {
				require.Error(t, err)
				herr := httperror.ToHTTPError(err)
				assert.Equal(t, "gs1_company_prefix", herr.Meta["field"])
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestSupplierAbsentIdentifiersAreValid(t *testing.T) {
	// lei and gs1_company_prefix are nullable; absence is valid
	err := Struct(models.UpdateSupplierRequest{Name: strPtr("Mill A")})
	assert.NoError(t, err)
}

func TestSupplyChainStep(t *testing.T) {
	t.Run("valid step", func(t *testing.T) {
		err := Struct(models.CreateSupplyChainStepRequest{
			ProcessStep: models.ProcessStepDyeing,
			Country:     strPtr("PT"),
		})
		assert.NoError(t, err)
	})

	t.Run("unknown process step rejected", func(t *testing.T) {
		err := Struct(models.CreateSupplyChainStepRequest{ProcessStep: "ginning"})
		require.Error(t, err)
		herr := httperror.ToHTTPError(err)
		assert.Equal(t, "process_step", herr.Meta["field"])
	})

	t.Run("three-letter country rejected", func(t *testing.T) {
		err := Struct(models.CreateSupplyChainStepRequest{
			ProcessStep: models.ProcessStepFiber,
			Country:     strPtr("PRT"),
		})
		require.Error(t, err)
		herr := httperror.ToHTTPError(err)
		assert.Equal(t, "country", herr.Meta["field"])
	})
}

func TestComposition(t *testing.T) {
	t.Run("valid composition", func(t *testing.T) {
		err := Struct(models.CreateCompositionRequest{
			ContentName:  "organic cotton",
			ContentValue: 80,
			Recycled:     false,
		})
		assert.NoError(t, err)
	})

	t.Run("percentage over 100 rejected", func(t *testing.T) {
		err := Struct(models.CreateCompositionRequest{
			ContentName:  "cotton",
			ContentValue: 120,
		})
		require.Error(t, err)
		herr := httperror.ToHTTPError(err)
		assert.Equal(t, "content_value", herr.Meta["field"])
	})

	t.Run("bad recycled input source rejected", func(t *testing.T) {
		src := models.RecycledInputSource("landfill")
		err := Struct(models.CreateCompositionRequest{
			ContentName:         "cotton",
			ContentValue:        50,
			Recycled:            true,
			RecycledInputSource: &src,
		})
		require.Error(t, err)
	})
}

func TestFirstViolationWins(t *testing.T) {
	// both fields are invalid; the error must name exactly one field
	req := models.UpdateSupplierRequest{
		LEI:              strPtr("bad"),
		GS1CompanyPrefix: strPtr("bad"),
	}
	err := Struct(req)
	require.Error(t, err)
	herr := httperror.ToHTTPError(err)
	assert.Contains(t, []any{"lei", "gs1_company_prefix"}, herr.Meta["field"])
}

func TestCertificationDate(t *testing.T) {
	t.Run("valid date", func(t *testing.T) {
		err := Struct(models.CreateCertificationRequest{
			Certification: "GOTS",
			ValidUntil:    strPtr("2027-06-30"),
		})
		assert.NoError(t, err)
	})

	t.Run("malformed date rejected", func(t *testing.T) {
		err := Struct(models.CreateCertificationRequest{
			Certification: "GOTS",
			ValidUntil:    strPtr("30/06/2027"),
		})
		require.Error(t, err)
	})
}
