package attendance

import (
	"fmt"
	"strings"

	"github.com/a3tai/mcp-rdo-report/internal/report"
)

// Level classifies a status message
type Level string

const (
	LevelSuccess Level = "success"
	LevelPartial Level = "partial"
	LevelFailure Level = "failure"
)

// Status is the single user-facing message built from a reconciliation result
type Status struct {
	Level   Level    `json:"level"`
	Message string   `json:"message"`
	Details []string `json:"details,omitempty"`
}

// IsError reports whether the message should be shown as an error
func (s Status) IsError() bool {
	return s.Level == LevelFailure
}

// String joins the message and its details
func (s Status) String() string {
	if len(s.Details) == 0 {
		return s.Message
	}
	return s.Message + "\n" + strings.Join(s.Details, "\n")
}

// Summarize builds the Portuguese status message shown after an attendance import
func Summarize(res Result) Status {
	details := summaryDetails(res)

	var st Status
	switch {
	case res.Records == 0:
		st = Status{Level: LevelFailure, Message: "Nenhum dado no arquivo para processar."}
	case res.DatesAggregated == 0:
		st = Status{Level: LevelFailure, Message: "Nenhuma data válida ou função encontrada no arquivo para processar."}
	case res.TotalAssignments > 0 && len(details) == 0:
		st = Status{Level: LevelSuccess, Message: "Efetivo concluído!"}
	case res.TotalAssignments > 0:
		st = Status{Level: LevelPartial, Message: fmt.Sprintf(
			"Efetivo carregado. %d atribuição(ões) de função aplicadas em %d RDO dia(s).",
			res.TotalAssignments, res.DaysUpdated)}
	case res.DaysUpdated > 0:
		st = Status{Level: LevelPartial, Message: "Datas do arquivo encontradas nos RDOs, mas nenhuma função correspondeu aos itens nesses RDOs." +
			" Campos de quantidade foram limpos para esses dias."}
	default:
		st = Status{Level: LevelFailure, Message: "Nenhuma data do arquivo correspondeu às datas dos RDOs carregados."}
	}

	st.Details = details
	return st
}

func summaryDetails(res Result) []string {
	var details []string

	var invalidDates []string
	for _, rec := range res.InvalidRecords {
		if _, ok := report.ParseDMY(rec.RawDate); !ok && rec.RawDate != "" {
			invalidDates = append(invalidDates, rec.RawDate)
		}
	}
	if len(invalidDates) > 0 {
		details = append(details, fmt.Sprintf("Datas em formato inválido (DD/MM/YYYY): %s.", strings.Join(uniq(invalidDates), ", ")))
	}

	if len(res.DatesNotFound) > 0 {
		dates := make([]string, len(res.DatesNotFound))
		for i, d := range res.DatesNotFound {
			dates[i] = report.ISOToDMY(d)
		}
		details = append(details, fmt.Sprintf("Datas não encontradas nos RDOs: %s.", strings.Join(dates, ", ")))
	}

	for _, date := range res.UnmatchedDates() {
		details = append(details, fmt.Sprintf("Para a data %s: funções não encontradas: %s.",
			report.ISOToDMY(date), strings.Join(res.UnmatchedRoles[date], ", ")))
	}
	return details
}

func uniq(values []string) []string {
	seen := make(map[string]bool, len(values))
	out := values[:0:0]
	for _, v := range values {
		if !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	return out
}

// ClearStatus builds the message shown after clearing all rosters
func ClearStatus(changes int) Status {
	if changes == 0 {
		return Status{Level: LevelSuccess, Message: "Nenhum efetivo para remover ou campos já estavam vazios."}
	}
	return Status{Level: LevelSuccess, Message: "Efetivo removido de todos os RDOs."}
}

// CopyStatusMessage builds the message shown after copying the Saturday roster
func CopyStatusMessage(res CopyResult) Status {
	switch res.Status {
	case CopyApplied:
		return Status{Level: LevelSuccess, Message: "Efetivo do sábado copiado com sucesso!"}
	case CopyPartial:
		return Status{Level: LevelPartial, Message: "Aviso: Discrepância no número de campos de efetivo. A cópia pode ser incompleta."}
	case CopySourceMissing:
		return Status{Level: LevelFailure, Message: "RDO do sábado anterior não encontrado para cópia."}
	case CopyNotBoundary:
		return Status{Level: LevelFailure, Message: "A cópia de efetivo só está disponível para RDOs de domingo."}
	case CopyNothing:
		return Status{Level: LevelFailure, Message: "Nenhum efetivo para copiar ou campos de destino não encontrados."}
	default:
		return Status{Level: LevelFailure, Message: "Erro: Não foi possível encontrar o RDO do domingo de destino."}
	}
}
