package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
)

// 通过管理端 API 灌入一批示例商品，方便本地联调。
// 用法: ADMIN_EMAIL=... ADMIN_SENHA=... go run ./cmd/seed-products

type medidaSpec struct {
	Nome      string `json:"nome"`
	Descricao string `json:"descricao"`
	Unidade   string `json:"unidade,omitempty"`
}

type productRequest struct {
	Nome                  string       `json:"nome"`
	Descricao             string       `json:"descricao"`
	Categoria             string       `json:"categoria"`
	PrecoBase             int64        `json:"precoBase"`
	Imagens               []string     `json:"imagens"`
	MedidasNecessarias    []medidaSpec `json:"medidasNecessarias"`
	TempoEstimadoProducao int          `json:"tempoEstimadoProducao"`
}

var seedProducts = []productRequest{
	{
		Nome:      "Blusa Maré",
		Descricao: "Blusa de crochê em linha de algodão, modelagem sob medida",
		Categoria: "blusas",
		PrecoBase: 18900,
		Imagens:   []string{"/img/blusa-mare-1.jpg", "/img/blusa-mare-2.jpg"},
		MedidasNecessarias: []medidaSpec{
			{Nome: "busto", Descricao: "Contorno do busto na parte mais cheia"},
			{Nome: "comprimento", Descricao: "Do ombro até a barra desejada"},
		},
		TempoEstimadoProducao: 7,
	},
	{
		Nome:      "Saia Concha",
		Descricao: "Saia midi de crochê com ponto concha e forro",
		Categoria: "saias",
		PrecoBase: 23900,
		Imagens:   []string{"/img/saia-concha-1.jpg"},
		MedidasNecessarias: []medidaSpec{
			{Nome: "cintura", Descricao: "Contorno da cintura"},
			{Nome: "quadril", Descricao: "Contorno do quadril na parte mais cheia"},
			{Nome: "comprimento", Descricao: "Da cintura até a barra desejada"},
		},
		TempoEstimadoProducao: 10,
	},
	{
		Nome:      "Shorts Areia",
		Descricao: "Shorts de crochê de cintura alta em fio premium",
		Categoria: "shorts",
		PrecoBase: 15900,
		Imagens:   []string{"/img/shorts-areia-1.jpg"},
		MedidasNecessarias: []medidaSpec{
			{Nome: "cintura", Descricao: "Contorno da cintura"},
			{Nome: "quadril", Descricao: "Contorno do quadril na parte mais cheia"},
		},
		TempoEstimadoProducao: 5,
	},
	{
		Nome:      "Biquíni Coral",
		Descricao: "Biquíni de crochê com bojo removível e amarrações",
		Categoria: "biquinis",
		PrecoBase: 12900,
		Imagens:   []string{"/img/biquini-coral-1.jpg", "/img/biquini-coral-2.jpg"},
		MedidasNecessarias: []medidaSpec{
			{Nome: "busto", Descricao: "Contorno do busto na parte mais cheia"},
			{Nome: "quadril", Descricao: "Contorno do quadril na parte mais cheia"},
		},
		TempoEstimadoProducao: 4,
	},
}

func main() {
	baseURL := os.Getenv("API_URL")
	if baseURL == "" {
		baseURL = "http://localhost:8080/api"
	}
	email := os.Getenv("ADMIN_EMAIL")
	senha := os.Getenv("ADMIN_SENHA")
	if email == "" || senha == "" {
		fmt.Println("defina ADMIN_EMAIL e ADMIN_SENHA")
		os.Exit(1)
	}

	client := &http.Client{}

	fmt.Println("[1/2] autenticando...")
	loginBody, _ := json.Marshal(map[string]string{"email": email, "senha": senha})
	resp, err := client.Post(baseURL+"/auth/login", "application/json", bytes.NewReader(loginBody))
	if err != nil {
		fmt.Printf("login falhou: %v\n", err)
		os.Exit(1)
	}
	defer resp.Body.Close()
	raw, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		fmt.Printf("login falhou (%d): %s\n", resp.StatusCode, raw)
		os.Exit(1)
	}
	var login struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(raw, &login); err != nil || login.Token == "" {
		fmt.Printf("resposta de login inesperada: %s\n", raw)
		os.Exit(1)
	}

	fmt.Printf("[2/2] criando %d produtos...\n", len(seedProducts))
	body, _ := json.Marshal(seedProducts)
	req, _ := http.NewRequest(http.MethodPost, baseURL+"/products", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+login.Token)
	resp2, err := client.Do(req)
	if err != nil {
		fmt.Printf("criação falhou: %v\n", err)
		os.Exit(1)
	}
	defer resp2.Body.Close()
	raw2, _ := io.ReadAll(resp2.Body)
	if resp2.StatusCode != http.StatusCreated {
		fmt.Printf("criação falhou (%d): %s\n", resp2.StatusCode, raw2)
		os.Exit(1)
	}
	fmt.Println("produtos criados com sucesso")
}
