package bulk

import (
	"context"
	"database/sql"
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"go.uber.org/multierr"

	"github.com/hy25/casamento/internal/database"
	"github.com/hy25/casamento/internal/utils"
)

// csvHeader is the fixed export header. Import accepts these names plus the
// synonyms below.
var csvHeader = []string{"Nome", "Email", "Telefone", "Tipo", "Código", "Confirmado", "Restrições", "Família"}

// headerSynonyms maps recognized (lowercased) import column names onto guest
// fields. Portuguese and English spellings are both accepted.
var headerSynonyms = map[string]string{
	"nome":     "name",
	"name":     "name",
	"email":    "email",
	"e-mail":   "email",
	"mail":     "email",
	"telefone": "phone",
	"phone":    "phone",
	"celular":  "phone",
	"tipo":     "type",
	"type":     "type",
	"código":   "code",
	"codigo":   "code",
	"code":     "code",
}

// escapeCSVField escapes a string for CSV format
func escapeCSVField(field string) string {
	// Escape double quotes by doubling them
	escaped := strings.ReplaceAll(field, "\"", "\"\"")
	// Replace newlines with spaces
	escaped = strings.ReplaceAll(escaped, "\n", " ")
	return escaped
}

func quoteRow(fields []string) string {
	quoted := make([]string, len(fields))
	for i, f := range fields {
		quoted[i] = "\"" + escapeCSVField(f) + "\""
	}
	return strings.Join(quoted, ",") + "\n"
}

// ExportCSV writes the guest list as CSV: UTF-8 BOM for Excel, the fixed
// Portuguese header, every field quoted.
func (o *Operations) ExportCSV(ctx context.Context, w io.Writer) error {
	guests, err := o.db.GetAllGuests(ctx)
	if err != nil {
		return err
	}
	familyNames, err := o.db.GetFamilyGroupNames(ctx)
	if err != nil {
		return err
	}

	if _, err := w.Write([]byte{0xEF, 0xBB, 0xBF}); err != nil {
		return fmt.Errorf("failed to write BOM: %w", err)
	}
	if _, err := io.WriteString(w, strings.Join(csvHeader, ",")+"\n"); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for _, guest := range guests {
		attending := "-"
		if guest.Attending.Valid {
			if guest.Attending.Bool {
				attending = "Sim"
			} else {
				attending = "Não"
			}
		}
		row := quoteRow([]string{
			guest.Name,
			guest.Email.String,
			guest.Phone.String,
			string(guest.GuestType),
			guest.InvitationCode,
			attending,
			guest.DietaryRestrictions.String,
			familyNames[guest.FamilyGroupID.String],
		})
		if _, err := io.WriteString(w, row); err != nil {
			return fmt.Errorf("failed to write row: %w", err)
		}
	}
	return nil
}

// ImportCSV reads a guest list. The first line is a header matched
// case-insensitively against the synonyms table; rows are imported
// independently, so one bad row never rolls back the others. A row missing
// both name and email fails with its line number.
func (o *Operations) ImportCSV(ctx context.Context, r io.Reader) Result {
	result := Result{}

	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		result.Failed++
		result.Errors = append(result.Errors, fmt.Sprintf("cabeçalho inválido: %v", err))
		return result
	}
	columns := mapHeader(header)
	if _, ok := columns["name"]; !ok {
		if _, ok := columns["email"]; !ok {
			result.Failed++
			result.Errors = append(result.Errors, "cabeçalho não contém colunas reconhecidas (nome, email, ...)")
			return result
		}
	}

	line := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			result.Failed++
			result.Errors = append(result.Errors, fmt.Sprintf("linha %d: %v", line, err))
			continue
		}

		guest, err := parseImportRow(columns, record, line)
		if err != nil {
			result.Failed++
			result.Errors = append(result.Errors, err.Error())
			continue
		}

		if err := o.db.CreateGuest(ctx, guest, o.cfg.CodePrefix); err != nil {
			result.Failed++
			result.Errors = append(result.Errors, fmt.Sprintf("linha %d: %v", line, err))
			continue
		}
		result.Success++
	}
	return result
}

func mapHeader(header []string) map[string]int {
	columns := make(map[string]int)
	for i, cell := range header {
		// BOM from Excel exports sticks to the first cell
		cell = strings.TrimPrefix(cell, "\ufeff")
		if field, ok := headerSynonyms[strings.ToLower(strings.TrimSpace(cell))]; ok {
			columns[field] = i
		}
	}
	return columns
}

func cellAt(record []string, columns map[string]int, field string) string {
	i, ok := columns[field]
	if !ok || i >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[i])
}

func parseImportRow(columns map[string]int, record []string, line int) (*database.Guest, error) {
	name := cellAt(record, columns, "name")
	email := cellAt(record, columns, "email")
	if name == "" && email == "" {
		return nil, fmt.Errorf("linha %d: nome e email ausentes", line)
	}

	guest := &database.Guest{Name: name}
	if guest.Name == "" {
		guest.Name = email
	}
	if email != "" {
		guest.Email = sql.NullString{String: email, Valid: true}
	}

	var errs error
	if phone := cellAt(record, columns, "phone"); phone != "" {
		normalized, err := utils.NormalizePhoneNumber(phone)
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("telefone inválido %q", phone))
		} else {
			guest.Phone = sql.NullString{String: normalized, Valid: true}
		}
	}

	switch guestType := strings.ToLower(cellAt(record, columns, "type")); guestType {
	case "", string(database.GuestIndividual):
		guest.GuestType = database.GuestIndividual
	case string(database.GuestFamily), "família", "familia":
		guest.GuestType = database.GuestFamily
	case string(database.GuestChild), "criança", "crianca":
		guest.GuestType = database.GuestChild
	default:
		errs = multierr.Append(errs, fmt.Errorf("tipo desconhecido %q", guestType))
	}

	if code := cellAt(record, columns, "code"); code != "" {
		guest.InvitationCode = strings.ToUpper(code)
	}

	if errs != nil {
		return nil, fmt.Errorf("linha %d: %w", line, errs)
	}
	return guest, nil
}
