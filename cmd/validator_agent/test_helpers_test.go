package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// getBinaryPath returns the path to the validator_agent binary for CLI tests
func getBinaryPath(t *testing.T) string {
	t.Helper()
	if testing.Short() {
		t.Skip("Skipping CLI tests in short mode")
	}

	binaryPath := filepath.Join("..", "..", "bin", "validator_agent")
	if _, err := os.Stat(binaryPath); os.IsNotExist(err) {
		t.Skipf("Binary not found at %s, build it with 'go build -o bin/validator_agent ./cmd/validator_agent'", binaryPath)
	}
	return binaryPath
}

const labourCard = `Empresa: Comercial Silva Ltda
Cargo: Auxiliar Administrativo
Data de admissão: 01/03/2018
Data de saída: 15/09/2019

Empregador: Hospital Santa Clara
Função: Auxiliar de Enfermagem
Admissão: 10/10/2019
Desligamento: 05/01/2022
`

const adminPolicyJSON = `{"minimum_months": 12, "accepted_positions": ["Auxiliar Administrativo", "Assistente Administrativo"]}`

func writeTemp(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func readJSONFile[T any](path string) (T, error) {
	var out T
	data, err := os.ReadFile(path)
	if err != nil {
		return out, err
	}
	err = json.Unmarshal(data, &out)
	return out, err
}
