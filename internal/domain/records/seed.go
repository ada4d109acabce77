package records

import (
	"context"
	"fmt"
	"time"
)

// Seed carga la historia clínica de demo del paciente 1.
func Seed(ctx context.Context, repo Repository) error {
	for _, rec := range seedRecords() {
		if err := repo.Create(ctx, rec); err != nil {
			return fmt.Errorf("seed clinical record %s: %w", rec.ID, err)
		}
	}
	return nil
}

func seedRecords() []ClinicalRecord {
	d := func(s string) time.Time {
		t, _ := time.Parse("2006-01-02", s)
		return t
	}
	return []ClinicalRecord{
		{
			ID:               "seed-1",
			PatientID:        "1",
			Date:             d("2023-06-15"),
			ProfessionalName: "Dra. Ana Sousa",
			Facility:         "Hospital Central",
			Notes:            "Paciente apresentou pressão arterial elevada. Ajustada dosagem da medicação e recomendadas mudanças no estilo de vida. Retorno em 30 dias.",
			Conditions:       []string{"Hipertensão", "Diabetes Tipo 2"},
			Exams:            []string{"Exame de Sangue", "ECG", "Exame de Urina"},
			CreatedBy:        "3",
			CreatedAt:        d("2023-06-15"),
		},
		{
			ID:               "seed-2",
			PatientID:        "1",
			Date:             d("2023-04-10"),
			ProfessionalName: "Dr. Carlos Domingos",
			Facility:         "Centro de Saúde #5",
			Notes:            "Consulta de rotina. Níveis de glicose no sangue dentro da normalidade. Renovadas prescrições das medicações atuais.",
			Conditions:       []string{"Diabetes Tipo 2"},
			Exams:            []string{"Teste de Glicose"},
			CreatedBy:        "4",
			CreatedAt:        d("2023-04-10"),
		},
		{
			ID:               "seed-3",
			PatientID:        "1",
			Date:             d("2023-01-25"),
			ProfessionalName: "Enf. Maria Inês",
			Facility:         "Hospital Central",
			Notes:            "Vacinação contra gripe sazonal. Nenhuma reação adversa observada.",
			Conditions:       []string{},
			Exams:            []string{},
			CreatedBy:        "5",
			CreatedAt:        d("2023-01-25"),
		},
	}
}
