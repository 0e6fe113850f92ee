package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rafaelscdev/crocheDaRuiva/internal/datamodels/order"
	"github.com/rafaelscdev/crocheDaRuiva/internal/datamodels/product"
)

func blusaSpecs() []product.MedidaSpec {
	return []product.MedidaSpec{
		{Nome: "busto", Descricao: "contorno do busto", Unidade: "cm"},
		{Nome: "comprimento", Descricao: "do ombro até a barra", Unidade: "cm"},
	}
}

func TestValidateMedidasOK(t *testing.T) {
	err := ValidateMedidas(blusaSpecs(), []order.Medida{
		{Nome: "busto", Valor: 90},
		{Nome: "comprimento", Valor: 60},
	})
	assert.NoError(t, err)
}

func TestValidateMedidasCaseInsensitive(t *testing.T) {
	err := ValidateMedidas(blusaSpecs(), []order.Medida{
		{Nome: "Busto", Valor: 90},
		{Nome: "COMPRIMENTO", Valor: 60},
	})
	assert.NoError(t, err)
}

func TestValidateMedidasMissing(t *testing.T) {
	err := ValidateMedidas(blusaSpecs(), []order.Medida{
		{Nome: "busto", Valor: 90},
	})
	var missErr *MissingMeasurementsError
	require.ErrorAs(t, err, &missErr)
	assert.Equal(t, []string{"comprimento"}, missErr.Nomes)
}

func TestValidateMedidasExtra(t *testing.T) {
	err := ValidateMedidas(blusaSpecs(), []order.Medida{
		{Nome: "busto", Valor: 90},
		{Nome: "comprimento", Valor: 60},
		{Nome: "punho", Valor: 18},
	})
	var extraErr *ExtraMeasurementsError
	require.ErrorAs(t, err, &extraErr)
	assert.Equal(t, []string{"punho"}, extraErr.Nomes)
}

// 完整性先于数值校验：既缺失又有非法值时，报缺失
func TestValidateMedidasMissingBeforeValue(t *testing.T) {
	err := ValidateMedidas(blusaSpecs(), []order.Medida{
		{Nome: "busto", Valor: -5},
	})
	var missErr *MissingMeasurementsError
	assert.ErrorAs(t, err, &missErr)
}

func TestValidateMedidasOutOfRange(t *testing.T) {
	specs := []product.MedidaSpec{
		{Nome: "cintura", Descricao: "contorno da cintura"},
	}
	err := ValidateMedidas(specs, []order.Medida{
		{Nome: "cintura", Valor: 250},
	})
	var valErr *InvalidMeasurementError
	require.ErrorAs(t, err, &valErr)
	assert.Equal(t, "cintura", valErr.Nome)
	assert.Equal(t, float64(250), valErr.Valor)
	assert.Equal(t, float64(40), valErr.Min)
	assert.Equal(t, float64(200), valErr.Max)
}

func TestValidateMedidasComprimentoRange(t *testing.T) {
	specs := []product.MedidaSpec{
		{Nome: "comprimento", Descricao: "da cintura até a barra"},
	}
	assert.NoError(t, ValidateMedidas(specs, []order.Medida{{Nome: "comprimento", Valor: 20}}))

	err := ValidateMedidas(specs, []order.Medida{{Nome: "comprimento", Valor: 10}})
	var valErr *InvalidMeasurementError
	assert.ErrorAs(t, err, &valErr)
}

// 未收录名称跳过区间校验，但仍要求正数
func TestValidateMedidasUnknownNameSkipsRange(t *testing.T) {
	specs := []product.MedidaSpec{
		{Nome: "punho", Descricao: "contorno do punho"},
	}
	assert.NoError(t, ValidateMedidas(specs, []order.Medida{{Nome: "punho", Valor: 500}}))

	err := ValidateMedidas(specs, []order.Medida{{Nome: "punho", Valor: 0}})
	var valErr *InvalidMeasurementError
	require.ErrorAs(t, err, &valErr)
	assert.Zero(t, valErr.Max)
}

// 第一个非法数值即短路返回
func TestValidateMedidasShortCircuit(t *testing.T) {
	err := ValidateMedidas(blusaSpecs(), []order.Medida{
		{Nome: "busto", Valor: -1},
		{Nome: "comprimento", Valor: 999},
	})
	var valErr *InvalidMeasurementError
	require.ErrorAs(t, err, &valErr)
	assert.Equal(t, "busto", valErr.Nome)
}
