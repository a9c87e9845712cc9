package brdoc

import "testing"

func TestValidateCPF(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want bool
	}{
		{"valido sem pontuacao", "52998224725", true},
		{"valido com pontuacao", "529.982.247-25", true},
		{"outro valido", "11144477735", true},
		{"digito verificador errado", "52998224726", false},
		{"todos zeros", "00000000000", false},
		{"sequencia repetida", "11111111111", false},
		{"curto", "5299822472", false},
		{"longo", "529982247250", false},
		{"vazio", "", false},
		{"letras", "abc.def.ghi-jk", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := ValidateCPF(tc.in); got != tc.want {
				t.Fatalf("ValidateCPF(%q) = %v, esperado %v", tc.in, got, tc.want)
			}
		})
	}
}

func TestValidateCNPJ(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want bool
	}{
		{"valido sem pontuacao", "11222333000181", true},
		{"valido com pontuacao", "11.222.333/0001-81", true},
		{"digito verificador errado", "11222333000182", false},
		{"todos zeros", "00000000000000", false},
		{"sequencia repetida", "33333333333333", false},
		{"curto", "1122233300018", false},
		{"vazio", "", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := ValidateCNPJ(tc.in); got != tc.want {
				t.Fatalf("ValidateCNPJ(%q) = %v, esperado %v", tc.in, got, tc.want)
			}
		})
	}
}

func TestPlausible_WeakCheckOnly(t *testing.T) {
	// A checagem fraca aceita documentos com dígito verificador inválido,
	// desde que tenham o tamanho certo e não sejam sequência repetida.
	if !PlausibleCPF("12345678900") {
		t.Error("PlausibleCPF deveria aceitar CPF de exemplo sem checksum")
	}
	if PlausibleCPF("00000000000") {
		t.Error("PlausibleCPF deveria rejeitar todos zeros")
	}
	if !PlausibleCNPJ("12345678000100") {
		t.Error("PlausibleCNPJ deveria aceitar CNPJ de exemplo sem checksum")
	}
	if PlausibleCNPJ("00000000000000") {
		t.Error("PlausibleCNPJ deveria rejeitar todos zeros")
	}
}

func TestOnlyDigits(t *testing.T) {
	if got := OnlyDigits("529.982.247-25"); got != "52998224725" {
		t.Fatalf("OnlyDigits = %q", got)
	}
}
