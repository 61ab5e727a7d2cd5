package report

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Form capacities
const (
	ActivityRowsFirstPage  = 24
	ActivityRowsSecondPage = 22
	PhotoSlots             = 4
	ShiftCount             = 3
)

// DefaultShifts returns the three work shifts printed on the weather panel
func DefaultShifts() []Shift {
	return []Shift{
		{Label: "Manhã", Time: "07:00 - 12:00", Weather: "B", Work: "N"},
		{Label: "Tarde", Time: "13:00 - 17:00", Weather: "B", Work: "N"},
		{Label: "Noite", Time: "18:00 - 22:00"},
	}
}

func line(c Category, label string) RosterLineItem {
	return RosterLineItem{Category: c, Label: label}
}

// DefaultRosterTemplate returns the roster printed on the standard form
func DefaultRosterTemplate() []RosterLineItem {
	return []RosterLineItem{
		line(CategoryDirect, "Encarregado Geral"),
		line(CategoryDirect, "Encarregado de Obras"),
		line(CategoryDirect, "Pedreiro"),
		line(CategoryDirect, "Carpinteiro"),
		line(CategoryDirect, "Armador"),
		line(CategoryDirect, "Eletricista"),
		line(CategoryDirect, "Encanador"),
		line(CategoryDirect, "Montador"),
		line(CategoryDirect, "Soldador"),
		line(CategoryDirect, "Pintor"),
		line(CategoryDirect, "Operador de Retroescavadeira"),
		line(CategoryDirect, "Motorista"),
		line(CategoryDirect, "Ajudante"),
		line(CategoryDirect, "Aux. Serv. Gerais"),

		line(CategoryIndirect, "Gerente de Contrato"),
		line(CategoryIndirect, "Eng. civil (plan.)"),
		line(CategoryIndirect, "Eng. de prod. (Qual.)"),
		line(CategoryIndirect, "Aux. de Engenharia"),
		line(CategoryIndirect, "Téc. Seg. Trabalho"),
		line(CategoryIndirect, "Técnico de Engenharia"),
		line(CategoryIndirect, "Assistente Administrativo"),
		line(CategoryIndirect, "Almoxarife"),
		line(CategoryIndirect, "Apontador"),
		line(CategoryIndirect, "Topógrafo"),
		line(CategoryIndirect, "Laboratorista"),
		line(CategoryIndirect, "Cadista"),
		line(CategoryIndirect, "Vigia"),

		line(CategoryEquipment, "Retroescavadeira"),
		line(CategoryEquipment, "Caminhão Basculante"),
		line(CategoryEquipment, "Caminhão Munck"),
		line(CategoryEquipment, "Caminhão Pipa"),
		line(CategoryEquipment, "Escavadeira Hidráulica"),
		line(CategoryEquipment, "Rolo Compactador"),
		line(CategoryEquipment, "Compactador de Solo"),
		line(CategoryEquipment, "Betoneira"),
		line(CategoryEquipment, "Gerador"),
		line(CategoryEquipment, "Bomba Submersa"),
		line(CategoryEquipment, "Veículo Leve"),
	}
}

// LoadRosterTemplate reads a roster template from a YAML file holding a list of
// {category, label} entries.
func LoadRosterTemplate(path string) ([]RosterLineItem, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read roster template: %w", err)
	}

	var items []RosterLineItem
	if err := yaml.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("failed to parse roster template: %w", err)
	}

	if err := ValidateRoster(items); err != nil {
		return nil, err
	}

	for i := range items {
		items[i].Quantity = nil
	}
	return items, nil
}

// ValidateRoster checks that every line has a known category and that labels are
// unique within the roster.
func ValidateRoster(items []RosterLineItem) error {
	if len(items) == 0 {
		return fmt.Errorf("roster is empty")
	}

	seen := make(map[string]bool, len(items))
	for i, item := range items {
		if !item.Category.Valid() {
			return fmt.Errorf("roster line %d (%q): unknown category %q", i, item.Label, item.Category)
		}
		if item.Label == "" {
			return fmt.Errorf("roster line %d has an empty label", i)
		}
		if seen[item.Label] {
			return fmt.Errorf("roster label %q appears more than once", item.Label)
		}
		if item.Quantity != nil && *item.Quantity < 0 {
			return fmt.Errorf("roster line %q has a negative quantity", item.Label)
		}
		seen[item.Label] = true
	}
	return nil
}
