package fund

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fundsight/backend/internal/domain/shared"
)

func TestNewFund(t *testing.T) {
	tests := []struct {
		name        string
		fundName    string
		gpName      string
		fundType    string
		vintageYear int
		wantErr     bool
		errCode     string
	}{
		{
			name:        "valid fund",
			fundName:    "Growth Fund III",
			gpName:      "Acme Capital",
			fundType:    "Buyout",
			vintageYear: 2019,
		},
		{
			name:        "empty name",
			fundName:    "   ",
			gpName:      "Acme Capital",
			fundType:    "Buyout",
			vintageYear: 2019,
			wantErr:     true,
			errCode:     "INVALID_FUND_NAME",
		},
		{
			name:        "empty gp name",
			fundName:    "Growth Fund III",
			gpName:      "",
			fundType:    "Buyout",
			vintageYear: 2019,
			wantErr:     true,
			errCode:     "INVALID_GP_NAME",
		},
		{
			name:        "vintage year out of range",
			fundName:    "Growth Fund III",
			gpName:      "Acme Capital",
			fundType:    "Buyout",
			vintageYear: 1850,
			wantErr:     true,
			errCode:     "INVALID_VINTAGE_YEAR",
		},
		{
			name:     "zero vintage year means unknown",
			fundName: "Growth Fund III",
			gpName:   "Acme Capital",
			fundType: "Buyout",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := NewFund(tt.fundName, tt.gpName, tt.fundType, tt.vintageYear)
			if tt.wantErr {
				require.Error(t, err)
				var domainErr *shared.DomainError
				require.ErrorAs(t, err, &domainErr)
				assert.Equal(t, tt.errCode, domainErr.Code)
				return
			}
			require.NoError(t, err)
			assert.NotEqual(t, "", f.ID.String())
			assert.Equal(t, tt.fundType, f.FundType)
			assert.Nil(t, f.NAV)
		})
	}
}

func TestNewFund_DefaultsFundType(t *testing.T) {
	f, err := NewFund("Fund I", "GP", "", 2020)
	require.NoError(t, err)
	assert.Equal(t, "Other", f.FundType)
}

func TestFund_SetNAV(t *testing.T) {
	f, err := NewFund("Fund I", "GP", "Venture", 2020)
	require.NoError(t, err)

	require.NoError(t, f.SetNAV(decimal.NewFromInt(1_500_000)))
	require.True(t, f.HasNAV())
	assert.True(t, f.NAV.Equal(decimal.NewFromInt(1_500_000)))

	// reported zero NAV is valid and distinct from "not reported"
	require.NoError(t, f.SetNAV(decimal.Zero))
	assert.True(t, f.HasNAV())

	err = f.SetNAV(decimal.NewFromInt(-1))
	require.Error(t, err)

	f.ClearNAV()
	assert.False(t, f.HasNAV())
}

func TestFund_Update(t *testing.T) {
	f, err := NewFund("Fund I", "GP", "Venture", 2020)
	require.NoError(t, err)

	require.NoError(t, f.Update("Fund I-B", "GP Partners", "Growth", 2021))
	assert.Equal(t, "Fund I-B", f.Name)
	assert.Equal(t, "GP Partners", f.GPName)
	assert.Equal(t, "Growth", f.FundType)
	assert.Equal(t, 2021, f.VintageYear)

	// blank fund type keeps the previous value
	require.NoError(t, f.Update("Fund I-B", "GP Partners", "  ", 2021))
	assert.Equal(t, "Growth", f.FundType)

	require.Error(t, f.Update("", "GP Partners", "Growth", 2021))
}
