package importer

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"

	"github.com/visitops/cvm-planner/backend/internal/domain"
	"github.com/visitops/cvm-planner/backend/internal/repo"
)

var monthShort = []string{"JAN", "FEB", "MAR", "APR", "MAY", "JUN", "JUL", "AUG", "SEP", "OCT", "NOV", "DEC"}

// Options configure one workbook import.
type Options struct {
	// YearOverride pins the CVM calendar year. Zero means resolve it from the
	// workbook (JANUARY!R4), falling back to the current year.
	YearOverride    int
	UpsertPolicy    string // merge (default), create_only, overwrite
	ValidationMode  string // standard (default), strict
	DuplicatePolicy string // last_wins (default), first_wins, error
	DryRun          bool
}

// normalize fills defaults and rejects unknown option values.
func (o *Options) normalize() error {
	o.UpsertPolicy = strings.ToLower(cleanText(o.UpsertPolicy))
	if o.UpsertPolicy == "" {
		o.UpsertPolicy = PolicyMerge
	}
	switch o.UpsertPolicy {
	case PolicyMerge, PolicyCreateOnly, PolicyOverwrite:
	default:
		return fmt.Errorf("invalid upsert policy %q (allowed: create_only, merge, overwrite): %w",
			o.UpsertPolicy, domain.ErrValidation)
	}

	o.ValidationMode = strings.ToLower(cleanText(o.ValidationMode))
	if o.ValidationMode == "" {
		o.ValidationMode = ModeStandard
	}
	switch o.ValidationMode {
	case ModeStandard, ModeStrict:
	default:
		return fmt.Errorf("invalid validation mode %q (allowed: standard, strict): %w",
			o.ValidationMode, domain.ErrValidation)
	}

	o.DuplicatePolicy = strings.ToLower(cleanText(o.DuplicatePolicy))
	if o.DuplicatePolicy == "" {
		o.DuplicatePolicy = DupLastWins
	}
	switch o.DuplicatePolicy {
	case DupLastWins, DupFirstWins, DupError:
	default:
		return fmt.Errorf("invalid duplicate policy %q (allowed: error, first_wins, last_wins): %w",
			o.DuplicatePolicy, domain.ErrValidation)
	}

	return nil
}

// Importer loads planner workbooks through the repo layer.
type Importer struct {
	territories repo.TerritoryRepo
	customers   repo.CustomerRepo
	stores      repo.StoreRepo
	cvm         repo.CvmRepo

	// now is swappable for tests.
	now func() time.Time
}

// New constructs an Importer backed by the provided repos.
func New(territories repo.TerritoryRepo, customers repo.CustomerRepo, stores repo.StoreRepo, cvm repo.CvmRepo) *Importer {
	return &Importer{
		territories: territories,
		customers:   customers,
		stores:      stores,
		cvm:         cvm,
		now:         time.Now,
	}
}

// importState carries the per-import caches shared across sheets.
type importState struct {
	write bool

	// territoryCache maps territory name to its ID. Dry-run creations are
	// cached as uuid.Nil so each new name is only counted once.
	territoryCache map[string]uuid.UUID

	// existingCvm holds "customerID|month" keys for the resolved year,
	// loaded only under the create_only policy.
	existingCvm map[string]bool

	// createdCustomers tracks codes a dry run has "created", so a later sheet
	// counts them as updates rather than creating them again.
	createdCustomers map[string]bool

	seenGetDataCustomer map[string]int
	seenCvmCustomer     map[string]int
	seenDetailStore     map[string]int
}

// Import parses the workbook and, unless opts.DryRun is set, applies it to the
// database. Dry runs still classify every row against current data (created
// vs. updated vs. skipped) but perform no writes.
func (im *Importer) Import(ctx context.Context, content []byte, filename string, opts Options) (*Summary, error) {
	lower := strings.ToLower(filename)
	if !strings.HasSuffix(lower, ".xlsx") && !strings.HasSuffix(lower, ".xlsm") && !strings.HasSuffix(lower, ".xltm") {
		return nil, fmt.Errorf("upload an .xlsx or .xlsm workbook: %w", domain.ErrValidation)
	}
	if len(content) == 0 {
		return nil, fmt.Errorf("uploaded workbook is empty: %w", domain.ErrValidation)
	}
	if err := opts.normalize(); err != nil {
		return nil, err
	}

	f, err := excelize.OpenReader(bytes.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("could not read workbook (%v): %w", err, domain.ErrValidation)
	}
	defer f.Close() //nolint:errcheck // read-only handle

	sum := newSummary(filename, opts)
	st := &importState{
		write:               !opts.DryRun,
		territoryCache:      map[string]uuid.UUID{},
		createdCustomers:    map[string]bool{},
		seenGetDataCustomer: map[string]int{},
		seenCvmCustomer:     map[string]int{},
		seenDetailStore:     map[string]int{},
	}

	if err := im.importGetData(ctx, f, sum, st); err != nil {
		return nil, err
	}
	if err := im.importCustomerDetails(ctx, f, sum, st); err != nil {
		return nil, err
	}

	year := opts.YearOverride
	if year == 0 {
		year = resolveCalendarYear(f)
	}
	if year == 0 {
		year = im.now().UTC().Year()
		sum.addWarning(fmt.Sprintf("Calendar year could not be resolved from workbook. Defaulted to %d.", year))
	}
	sum.CalendarYear = year

	if err := im.importCvm(ctx, f, sum, st, year); err != nil {
		return nil, err
	}

	sum.finish()
	return sum, nil
}

// sheetByPrefix returns the first sheet whose trimmed name starts with prefix,
// case-insensitive.
func sheetByPrefix(f *excelize.File, prefix string) string {
	target := strings.ToLower(strings.TrimSpace(prefix))
	for _, name := range f.GetSheetList() {
		if strings.HasPrefix(strings.ToLower(strings.TrimSpace(name)), target) {
			return name
		}
	}
	return ""
}

// sheetByExact returns the sheet whose trimmed name equals wanted, case-insensitive.
func sheetByExact(f *excelize.File, wanted string) string {
	target := strings.ToLower(strings.TrimSpace(wanted))
	for _, name := range f.GetSheetList() {
		if strings.ToLower(strings.TrimSpace(name)) == target {
			return name
		}
	}
	return ""
}

// resolveCalendarYear reads the planning year from JANUARY!R4. Returns zero
// when the sheet or a plausible year is missing.
func resolveCalendarYear(f *excelize.File) int {
	sheet := sheetByExact(f, "JANUARY")
	if sheet == "" {
		return 0
	}
	raw, err := f.GetCellValue(sheet, "R4")
	if err != nil {
		return 0
	}
	year, err := strconv.Atoi(cleanCode(raw))
	if err != nil || year < 2000 || year > 2100 {
		return 0
	}
	return year
}

// importGetData loads the customer master sheet ("Get Data -" prefix):
// territory, grouping metadata, code, and name per row, starting at row 2.
func (im *Importer) importGetData(ctx context.Context, f *excelize.File, sum *Summary, st *importState) error {
	sheet := sheetByPrefix(f, "Get Data -")
	if sheet == "" {
		sum.addWarning("Get Data sheet not found; skipped customer master import.")
		return nil
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return fmt.Errorf("importer: read sheet %q: %w", sheet, err)
	}

	for i := 1; i < len(rows); i++ {
		row := rows[i]
		rowNum := i + 1

		custCode := cleanCode(cell(row, 4))
		customerName := cleanText(cell(row, 5))

		if custCode == "" && customerName == "" && !rowPopulated(row) {
			continue
		}
		if custCode == "" {
			sum.recordIssue("error", sheet, rowNum, "Skipped row: missing customer code.")
			continue
		}
		if customerName == "" {
			sum.recordIssue(sum.validationLevel(), sheet, rowNum,
				fmt.Sprintf("Customer %q has no customer name; placeholder name may be used.", custCode))
		}

		if !sum.registerDuplicate(st.seenGetDataCustomer, custCode, sheet, rowNum, "customer") {
			continue
		}

		territoryID, err := im.getOrCreateTerritory(ctx, sum, st, cleanText(cell(row, 0)))
		if err != nil {
			return err
		}

		_, err = im.upsertCustomer(ctx, sum, st, customerUpsert{
			code:        custCode,
			name:        customerName,
			territoryID: territoryID,
			groupName:   cleanText(cell(row, 1)),
			group2IWS:   cleanText(cell(row, 2)),
			iwsCode:     cleanText(cell(row, 3)),
			oldValue:    cleanText(cell(row, 6)),
			oldName:     cleanText(cell(row, 7)),
		})
		if err != nil {
			return err
		}
	}

	return nil
}

// importCustomerDetails loads the store/contact sheet ("Customer Details"
// prefix), starting at row 3. Each populated row upserts the customer and, if
// any address or contact cell is filled, one store keyed by
// (customer, address_1, city, state).
func (im *Importer) importCustomerDetails(ctx context.Context, f *excelize.File, sum *Summary, st *importState) error {
	sheet := sheetByPrefix(f, "Customer Details")
	if sheet == "" {
		sum.addWarning("Customer Details sheet not found; skipped store/contact import.")
		return nil
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return fmt.Errorf("importer: read sheet %q: %w", sheet, err)
	}

	for i := 2; i < len(rows); i++ {
		row := rows[i]
		rowNum := i + 1

		custCode := cleanCode(cell(row, 0))
		if custCode == "" {
			custCode = cleanCode(cell(row, 2))
		}
		if custCode == "" {
			if rowPopulated(row) {
				sum.recordIssue("error", sheet, rowNum, "Skipped row: missing customer code.")
			}
			continue
		}

		customerName := extractName(cell(row, 1))
		if customerName == "" {
			customerName = extractName(cell(row, 2))
		}

		territoryID, err := im.getOrCreateTerritory(ctx, sum, st, cleanText(cell(row, 3)))
		if err != nil {
			return err
		}

		customerID, err := im.upsertCustomer(ctx, sum, st, customerUpsert{
			code:        custCode,
			name:        customerName,
			territoryID: territoryID,
		})
		if err != nil {
			return err
		}

		store := domain.Store{
			Address1:        cleanText(cell(row, 5)),
			Address2:        cleanText(cell(row, 6)),
			City:            cleanText(cell(row, 7)),
			State:           cleanText(cell(row, 8)),
			Postcode:        cleanText(cell(row, 9)),
			Country:         cleanText(cell(row, 10)),
			MainContact:     cleanText(cell(row, 11)),
			OwnerName:       cleanText(cell(row, 12)),
			OwnerPhone:      cleanText(cell(row, 13)),
			OwnerEmail:      cleanText(cell(row, 14)),
			ManagerName:     cleanText(cell(row, 15)),
			StorePhone:      cleanText(cell(row, 16)),
			StoreEmail:      cleanText(cell(row, 17)),
			MarketingName:   cleanText(cell(row, 18)),
			MarketingPhone:  cleanText(cell(row, 19)),
			MarketingEmail:  cleanText(cell(row, 20)),
			AccountingName:  cleanText(cell(row, 21)),
			AccountingPhone: cleanText(cell(row, 22)),
			AccountingEmail: cleanText(cell(row, 23)),
			Notes:           cleanText(cell(row, 24)),
		}
		if !storeHasData(store) {
			continue
		}

		storeKey := strings.ToLower(strings.Join([]string{custCode, store.Address1, store.City, store.State}, "|"))
		if !sum.registerDuplicate(st.seenDetailStore, storeKey, sheet, rowNum, "store") {
			continue
		}

		if err := im.upsertStore(ctx, sum, st, customerID, store); err != nil {
			return err
		}
	}

	return nil
}

// importCvm loads the "CVM" sheet: one row per customer with 12 month pairs of
// planned date and completion tick, starting at row 4.
func (im *Importer) importCvm(ctx context.Context, f *excelize.File, sum *Summary, st *importState, year int) error {
	sheet := sheetByExact(f, "CVM")
	if sheet == "" {
		sum.addWarning("CVM sheet not found; skipped monthly planning import.")
		return nil
	}

	if sum.UpsertPolicy == PolicyCreateOnly {
		entries, err := im.cvm.EntriesForYear(ctx, year)
		if err != nil {
			return err
		}
		st.existingCvm = make(map[string]bool, len(entries))
		for _, e := range entries {
			st.existingCvm[cvmKey(e.CustomerID, e.Month)] = true
		}
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return fmt.Errorf("importer: read sheet %q: %w", sheet, err)
	}

	for i := 3; i < len(rows); i++ {
		row := rows[i]
		rowNum := i + 1

		custCode := cleanCode(cell(row, 2))
		if custCode == "" {
			if rowPopulated(row) {
				sum.recordIssue("error", sheet, rowNum, "Skipped row: missing customer code.")
			}
			continue
		}

		if !sum.registerDuplicate(st.seenCvmCustomer, custCode, sheet, rowNum, "customer") {
			continue
		}

		territoryID, err := im.getOrCreateTerritory(ctx, sum, st, cleanText(cell(row, 1)))
		if err != nil {
			return err
		}

		customerID, err := im.upsertCustomer(ctx, sum, st, customerUpsert{
			code:        custCode,
			name:        cleanText(cell(row, 4)),
			territoryID: territoryID,
			tradeName:   cleanText(cell(row, 5)),
			cvmNotes:    cleanText(cell(row, 6)),
		})
		if err != nil {
			return err
		}

		if bucket := cleanText(cell(row, 3)); bucket != "" {
			if err := im.applySortBucket(ctx, st, customerID, bucket); err != nil {
				return err
			}
		}

		for month := 1; month <= 12; month++ {
			plannedCol := 10 + (month-1)*2
			completedCol := plannedCol + 1

			rawPlanned := cell(row, plannedCol)
			plannedDate, ok := parseCellDate(rawPlanned)
			if !ok && cleanText(rawPlanned) != "" {
				sum.recordIssue(sum.validationLevel(), sheet, rowNum,
					fmt.Sprintf("Invalid date %q in PLANNED %s; value ignored.", cleanText(rawPlanned), monthShort[month-1]))
			}
			completed := parseCellBool(cell(row, completedCol))

			if !ok && !completed {
				continue
			}

			if sum.UpsertPolicy == PolicyCreateOnly && customerID != uuid.Nil && st.existingCvm[cvmKey(customerID, month)] {
				sum.CvmEntriesSkipped++
				continue
			}

			sum.CvmEntriesUpserted++
			if st.write && customerID != uuid.Nil {
				entry := domain.CvmEntry{
					CustomerID:      customerID,
					Year:            year,
					Month:           month,
					CompletedManual: completed,
				}
				if ok {
					d := plannedDate
					entry.PlannedDate = &d
				}
				if _, err := im.cvm.UpsertEntry(ctx, entry); err != nil {
					return err
				}
			}
		}
	}

	return nil
}

// getOrCreateTerritory resolves a territory name to an ID, creating it when
// missing. Dry runs count the creation but return nil.
func (im *Importer) getOrCreateTerritory(ctx context.Context, sum *Summary, st *importState, name string) (*uuid.UUID, error) {
	if name == "" {
		return nil, nil
	}
	if id, ok := st.territoryCache[name]; ok {
		if id == uuid.Nil {
			return nil, nil
		}
		return &id, nil
	}

	t, err := im.territories.GetByName(ctx, name)
	switch {
	case err == nil:
		st.territoryCache[name] = t.ID
		return &t.ID, nil
	case errors.Is(err, domain.ErrNotFound):
	default:
		return nil, err
	}

	sum.TerritoriesCreated++
	if !st.write {
		st.territoryCache[name] = uuid.Nil
		return nil, nil
	}

	t, err = im.territories.UpsertByName(ctx, name)
	if err != nil {
		return nil, err
	}
	st.territoryCache[name] = t.ID
	return &t.ID, nil
}

// customerUpsert is the workbook-side view of a customer row. Blank fields
// mean "no information", which the merge policy keeps from the database.
type customerUpsert struct {
	code, name                           string
	tradeName, groupName, group2IWS      string
	iwsCode, oldValue, oldName, cvmNotes string
	territoryID                          *uuid.UUID
}

// upsertCustomer applies one customer row under the active policy and returns
// the customer ID. Dry-run creations return uuid.Nil.
func (im *Importer) upsertCustomer(ctx context.Context, sum *Summary, st *importState, in customerUpsert) (uuid.UUID, error) {
	existing, err := im.customers.GetByCustCode(ctx, in.code)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			return uuid.Nil, err
		}

		// A dry run never persists, so a customer "created" by an earlier
		// sheet still misses the lookup. Count it as a follow-up, not a
		// second creation.
		if !st.write && st.createdCustomers[in.code] {
			if sum.UpsertPolicy == PolicyCreateOnly {
				sum.CustomersSkippedExisting++
			} else {
				sum.CustomersUpdated++
			}
			return uuid.Nil, nil
		}

		name := in.name
		if name == "" {
			name = "Customer " + in.code
		}
		sum.CustomersCreated++
		if !st.write {
			st.createdCustomers[in.code] = true
			return uuid.Nil, nil
		}
		created, err := im.customers.Create(ctx, domain.Customer{
			CustCode:    in.code,
			Name:        name,
			TradeName:   in.tradeName,
			TerritoryID: in.territoryID,
			GroupName:   in.groupName,
			Group2IWS:   in.group2IWS,
			IWSCode:     in.iwsCode,
			OldValue:    in.oldValue,
			OldName:     in.oldName,
			CvmNotes:    in.cvmNotes,
		})
		if err != nil {
			return uuid.Nil, err
		}
		return created.ID, nil
	}

	switch sum.UpsertPolicy {
	case PolicyCreateOnly:
		sum.CustomersSkippedExisting++
		return existing.ID, nil

	case PolicyOverwrite:
		updated := existing
		if in.name != "" {
			updated.Name = in.name
		}
		updated.TradeName = in.tradeName
		updated.TerritoryID = in.territoryID
		updated.GroupName = in.groupName
		updated.Group2IWS = in.group2IWS
		updated.IWSCode = in.iwsCode
		updated.OldValue = in.oldValue
		updated.OldName = in.oldName
		updated.CvmNotes = in.cvmNotes
		sum.CustomersUpdated++
		if st.write {
			if _, err := im.customers.Update(ctx, updated); err != nil {
				return uuid.Nil, err
			}
		}
		return existing.ID, nil

	default: // merge
		updated := existing
		updated.Name = mergeStr(in.name, existing.Name)
		updated.TradeName = mergeStr(in.tradeName, existing.TradeName)
		if in.territoryID != nil {
			updated.TerritoryID = in.territoryID
		}
		updated.GroupName = mergeStr(in.groupName, existing.GroupName)
		updated.Group2IWS = mergeStr(in.group2IWS, existing.Group2IWS)
		updated.IWSCode = mergeStr(in.iwsCode, existing.IWSCode)
		updated.OldValue = mergeStr(in.oldValue, existing.OldValue)
		updated.OldName = mergeStr(in.oldName, existing.OldName)
		updated.CvmNotes = mergeStr(in.cvmNotes, existing.CvmNotes)
		sum.CustomersUpdated++
		if st.write {
			if _, err := im.customers.Update(ctx, updated); err != nil {
				return uuid.Nil, err
			}
		}
		return existing.ID, nil
	}
}

// upsertStore applies one store row under the active policy, keyed by
// (customer, address_1, city, state).
func (im *Importer) upsertStore(ctx context.Context, sum *Summary, st *importState, customerID uuid.UUID, in domain.Store) error {
	if customerID == uuid.Nil {
		// Dry-run creation of a new customer: the store cannot exist yet.
		sum.StoresCreated++
		return nil
	}

	existingList, err := im.stores.List(ctx, &customerID)
	if err != nil {
		return err
	}

	var existing *domain.Store
	for i := range existingList {
		s := &existingList[i].Store
		if strings.EqualFold(s.Address1, in.Address1) &&
			strings.EqualFold(s.City, in.City) &&
			strings.EqualFold(s.State, in.State) {
			existing = s
			break
		}
	}

	if existing == nil {
		sum.StoresCreated++
		if st.write {
			in.CustomerID = &customerID
			if _, err := im.stores.Create(ctx, in); err != nil {
				return err
			}
		}
		return nil
	}

	switch sum.UpsertPolicy {
	case PolicyCreateOnly:
		sum.StoresSkippedExisting++
		return nil

	case PolicyOverwrite:
		updated := in
		updated.ID = existing.ID
		updated.CustomerID = &customerID
		updated.SortBucket = existing.SortBucket
		sum.StoresUpdated++
		if st.write {
			if _, err := im.stores.Update(ctx, updated); err != nil {
				return err
			}
		}
		return nil

	default: // merge
		updated := *existing
		for _, f := range []struct {
			dst *string
			src string
		}{
			{&updated.Address1, in.Address1}, {&updated.Address2, in.Address2},
			{&updated.City, in.City}, {&updated.State, in.State},
			{&updated.Postcode, in.Postcode}, {&updated.Country, in.Country},
			{&updated.MainContact, in.MainContact},
			{&updated.OwnerName, in.OwnerName}, {&updated.OwnerPhone, in.OwnerPhone},
			{&updated.OwnerEmail, in.OwnerEmail},
			{&updated.ManagerName, in.ManagerName}, {&updated.StorePhone, in.StorePhone},
			{&updated.StoreEmail, in.StoreEmail},
			{&updated.MarketingName, in.MarketingName}, {&updated.MarketingPhone, in.MarketingPhone},
			{&updated.MarketingEmail, in.MarketingEmail},
			{&updated.AccountingName, in.AccountingName}, {&updated.AccountingPhone, in.AccountingPhone},
			{&updated.AccountingEmail, in.AccountingEmail},
			{&updated.Notes, in.Notes},
		} {
			*f.dst = mergeStr(f.src, *f.dst)
		}
		sum.StoresUpdated++
		if st.write {
			if _, err := im.stores.Update(ctx, updated); err != nil {
				return err
			}
		}
		return nil
	}
}

// applySortBucket copies the CVM sheet's sort bucket onto the customer's
// first store, when one exists.
func (im *Importer) applySortBucket(ctx context.Context, st *importState, customerID uuid.UUID, bucket string) error {
	if customerID == uuid.Nil || !st.write {
		return nil
	}

	list, err := im.stores.List(ctx, &customerID)
	if err != nil {
		return err
	}
	if len(list) == 0 {
		return nil
	}

	first := list[0].Store
	first.SortBucket = bucket
	_, err = im.stores.Update(ctx, first)
	return err
}

// storeHasData reports whether any imported store field carries content.
func storeHasData(s domain.Store) bool {
	for _, v := range []string{
		s.Address1, s.Address2, s.City, s.State, s.Postcode, s.Country,
		s.MainContact, s.OwnerName, s.OwnerPhone, s.OwnerEmail,
		s.ManagerName, s.StorePhone, s.StoreEmail,
		s.MarketingName, s.MarketingPhone, s.MarketingEmail,
		s.AccountingName, s.AccountingPhone, s.AccountingEmail,
		s.Notes,
	} {
		if v != "" {
			return true
		}
	}
	return false
}

// mergeStr implements the merge policy for one text field: a non-empty
// workbook value wins, a blank one keeps the existing data.
func mergeStr(incoming, existing string) string {
	if incoming != "" {
		return incoming
	}
	return existing
}

func cvmKey(customerID uuid.UUID, month int) string {
	return fmt.Sprintf("%s|%d", customerID, month)
}
