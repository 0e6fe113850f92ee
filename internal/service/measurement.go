package service

import (
	"fmt"
	"math"
	"strings"

	"github.com/rafaelscdev/crocheDaRuiva/internal/datamodels/order"
	"github.com/rafaelscdev/crocheDaRuiva/internal/datamodels/product"
)

// medidaLimites 按尺寸名称的合理区间（cm）。
// 未收录的名称跳过区间校验，只要求数值为正，留作可扩展的校验层。
var medidaLimites = map[string][2]float64{
	"cintura":     {40, 200},
	"quadril":     {40, 200},
	"busto":       {40, 200},
	"comprimento": {20, 150},
}

// MissingMeasurementsError 缺少商品要求的必填尺寸
type MissingMeasurementsError struct {
	Nomes []string
}

func (e *MissingMeasurementsError) Error() string {
	return "medidas obrigatórias faltando: " + strings.Join(e.Nomes, ", ")
}

// ExtraMeasurementsError 提交了商品不需要的尺寸
type ExtraMeasurementsError struct {
	Nomes []string
}

func (e *ExtraMeasurementsError) Error() string {
	return "medidas fornecidas não são necessárias para este produto: " + strings.Join(e.Nomes, ", ")
}

// InvalidMeasurementError 尺寸数值非正或超出区间
type InvalidMeasurementError struct {
	Nome  string
	Valor float64
	Min   float64
	Max   float64
}

func (e *InvalidMeasurementError) Error() string {
	if e.Max > 0 {
		return fmt.Sprintf("medida de %s fora dos limites aceitáveis (%.0f-%.0f cm): %v", e.Nome, e.Min, e.Max, e.Valor)
	}
	return fmt.Sprintf("valor de medida inválido para %s: %v", e.Nome, e.Valor)
}

// ValidateMedidas 按商品要求校验下单提交的尺寸。
// 名称不区分大小写；先查完整性（缺失、多余），再逐项查数值，
// 第一个非法数值即返回，不做聚合上报。
func ValidateMedidas(specs []product.MedidaSpec, medidas []order.Medida) error {
	necessarias := make(map[string]struct{}, len(specs))
	for _, s := range specs {
		necessarias[strings.ToLower(s.Nome)] = struct{}{}
	}
	fornecidas := make(map[string]struct{}, len(medidas))
	for _, m := range medidas {
		fornecidas[strings.ToLower(m.Nome)] = struct{}{}
	}

	var faltantes []string
	for _, s := range specs {
		if _, ok := fornecidas[strings.ToLower(s.Nome)]; !ok {
			faltantes = append(faltantes, strings.ToLower(s.Nome))
		}
	}
	if len(faltantes) > 0 {
		return &MissingMeasurementsError{Nomes: faltantes}
	}

	var extras []string
	for _, m := range medidas {
		if _, ok := necessarias[strings.ToLower(m.Nome)]; !ok {
			extras = append(extras, strings.ToLower(m.Nome))
		}
	}
	if len(extras) > 0 {
		return &ExtraMeasurementsError{Nomes: extras}
	}

	for _, m := range medidas {
		if m.Valor <= 0 || math.IsNaN(m.Valor) || math.IsInf(m.Valor, 0) {
			return &InvalidMeasurementError{Nome: m.Nome, Valor: m.Valor}
		}
		if limites, ok := medidaLimites[strings.ToLower(m.Nome)]; ok {
			if m.Valor < limites[0] || m.Valor > limites[1] {
				return &InvalidMeasurementError{Nome: m.Nome, Valor: m.Valor, Min: limites[0], Max: limites[1]}
			}
		}
	}
	return nil
}
