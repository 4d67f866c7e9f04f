package db

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/jonathan/experience-validator/internal/types"
)

// SeedCourses returns the initial technical course catalog.
func SeedCourses() []types.CreateCourseRequest {
	course := func(name, code, description string, months int, accepted ...string) types.CreateCourseRequest {
		return types.CreateCourseRequest{
			Name:              name,
			Code:              code,
			Description:       types.StringPtr(description),
			MinimumMonths:     types.IntPtr(months),
			AcceptedPositions: accepted,
		}
	}
	return []types.CreateCourseRequest{
		course("Técnico em Informática", "TEC-INFO",
			"Curso técnico em informática para internet e desenvolvimento", 12,
			"Técnico em Informática", "Auxiliar de Informática", "Assistente de TI",
			"Suporte Técnico", "Desenvolvedor", "Programador", "Analista de Suporte"),
		course("Técnico em Administração", "TEC-ADM",
			"Curso técnico em administração empresarial", 12,
			"Assistente Administrativo", "Auxiliar Administrativo", "Assistente de Departamento Pessoal",
			"Auxiliar de Escritório", "Secretário", "Recepcionista"),
		course("Técnico em Enfermagem", "TEC-ENF",
			"Curso técnico em enfermagem", 18,
			"Auxiliar de Enfermagem", "Técnico em Enfermagem", "Cuidador", "Atendente de Enfermagem"),
		course("Técnico em Contabilidade", "TEC-CONT",
			"Curso técnico em contabilidade", 12,
			"Auxiliar Contábil", "Assistente Contábil", "Auxiliar Fiscal", "Assistente Fiscal",
			"Auxiliar de Departamento Pessoal"),
		course("Técnico em Logística", "TEC-LOG",
			"Curso técnico em logística", 12,
			"Auxiliar de Logística", "Assistente de Logística", "Auxiliar de Almoxarifado",
			"Conferente", "Estoquista", "Expedidor"),
	}
}

// Seed creates the SeedCourses catalog when no course exists yet.
// It returns the number of courses created.
func (db *DB) Seed(ctx context.Context) (int, error) {
	existing, err := db.CountCourses(ctx)
	if err != nil {
		return 0, err
	}
	if existing > 0 {
		db.logger.Info("catalog already seeded", zap.Int("courses", existing))
		return 0, nil
	}

	created := 0
	for _, req := range SeedCourses() {
		if _, err := db.CreateCourse(ctx, &req); err != nil {
			return created, fmt.Errorf("failed to seed course %s: %w", req.Code, err)
		}
		created++
	}
	db.logger.Info("seeded course catalog", zap.Int("courses", created))
	return created, nil
}
