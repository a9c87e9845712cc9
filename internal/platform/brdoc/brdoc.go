// Package brdoc valida documentos brasileiros (CPF e CNPJ).
//
// ValidateCPF/ValidateCNPJ aplicam o cálculo completo dos dígitos
// verificadores. PlausibleCPF/PlausibleCNPJ fazem só a checagem fraca
// (tamanho + não-sequência repetida) usada em registros legados.
package brdoc

var (
	cnpjWeightsFirst  = []int{5, 4, 3, 2, 9, 8, 7, 6, 5, 4, 3, 2}
	cnpjWeightsSecond = []int{6, 5, 4, 3, 2, 9, 8, 7, 6, 5, 4, 3, 2}
)

// ValidateCPF valida um CPF com dígitos verificadores.
// Aceita pontuação (111.444.777-35) ou só dígitos.
func ValidateCPF(raw string) bool {
	cpf := onlyDigits(raw)
	if len(cpf) != 11 || allEqual(cpf) {
		return false
	}

	// Primeiro dígito: pesos 10..2 sobre os 9 primeiros.
	if checkDigit(cpf[:9], descendingWeights(10)) != int(cpf[9]-'0') {
		return false
	}
	// Segundo dígito: pesos 11..2 sobre os 10 primeiros.
	return checkDigit(cpf[:10], descendingWeights(11)) == int(cpf[10]-'0')
}

// ValidateCNPJ valida um CNPJ com dígitos verificadores.
func ValidateCNPJ(raw string) bool {
	cnpj := onlyDigits(raw)
	if len(cnpj) != 14 || allEqual(cnpj) {
		return false
	}

	if checkDigit(cnpj[:12], cnpjWeightsFirst) != int(cnpj[12]-'0') {
		return false
	}
	return checkDigit(cnpj[:13], cnpjWeightsSecond) == int(cnpj[13]-'0')
}

// PlausibleCPF checagem fraca: 11 dígitos e não todos iguais.
func PlausibleCPF(raw string) bool {
	cpf := onlyDigits(raw)
	return len(cpf) == 11 && !allEqual(cpf)
}

// PlausibleCNPJ checagem fraca: 14 dígitos e não todos iguais.
func PlausibleCNPJ(raw string) bool {
	cnpj := onlyDigits(raw)
	return len(cnpj) == 14 && !allEqual(cnpj)
}

// OnlyDigits remove tudo que não for dígito (útil para normalizar antes de
// persistir).
func OnlyDigits(raw string) string {
	return onlyDigits(raw)
}

func onlyDigits(raw string) string {
	out := make([]byte, 0, len(raw))
	for i := 0; i < len(raw); i++ {
		if raw[i] >= '0' && raw[i] <= '9' {
			out = append(out, raw[i])
		}
	}
	return string(out)
}

func allEqual(digits string) bool {
	for i := 1; i < len(digits); i++ {
		if digits[i] != digits[0] {
			return false
		}
	}
	return true
}

// checkDigit soma ponderada módulo 11; resto < 2 vira 0, senão 11-resto.
func checkDigit(digits string, weights []int) int {
	sum := 0
	for i := 0; i < len(digits); i++ {
		sum += int(digits[i]-'0') * weights[i]
	}
	r := sum % 11
	if r < 2 {
		return 0
	}
	return 11 - r
}

func descendingWeights(from int) []int {
	out := make([]int, 0, from-1)
	for w := from; w >= 2; w-- {
		out = append(out, w)
	}
	return out
}
