package registration

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"

	"github.com/rs/zerolog"

	"tarjetajoven/internal/adapters/httpapi"
	"tarjetajoven/internal/core/domain"
	"tarjetajoven/internal/core/ports"
	"tarjetajoven/internal/validate"
)

// Step is a custom type for the workflow state ENUM. Progression is
// linear and forward-biased with a single step-back transition.
type Step string

const (
	StepDocuments Step = "document_submission"
	StepReview    Step = "review_and_confirm"
	StepAccount   Step = "account_creation"
)

// Field identifies an editable field for touched/error bookkeeping.
type Field string

const (
	FieldStreet         Field = "calle"
	FieldExteriorNumber Field = "numero"
	FieldPostalCode     Field = "cp"
	FieldNeighborhood   Field = "colonia"
	FieldUsername       Field = "username"
	FieldPassword       Field = "password"
	FieldTerms          Field = "aceptaTerminos"
)

// Field-scoped messages. The copy matches the web client.
const (
	msgStreet       = "Ingresa la calle donde resides."
	msgNumber       = "Ingresa un numero exterior valido (usa S/N si aplica)."
	msgPostalCode   = "El codigo postal debe tener 5 digitos."
	msgNeighborhood = "Ingresa la colonia donde resides."
	msgUsername     = "Ingresa un correo electronico valido."
	msgPassword     = "Tu contrasena debe tener al menos 8 caracteres e incluir mayusculas, minusculas y numeros."
	msgTerms        = "Debes aceptar los terminos y politicas."
	msgConsent      = "Debes autorizar el tratamiento de tus documentos."
	msgFixFields    = "Por favor corrige los campos resaltados."
)

// ErrWrongStep is returned when an operation is invoked outside the
// step it belongs to.
var ErrWrongStep = errors.New("operation not available in the current step")

// ErrNoPreviousStep is returned by Back from the first step.
var ErrNoPreviousStep = errors.New("already at the first step")

// ValidationError blocks a transition with per-field messages.
type ValidationError struct {
	Fields    map[Field]string
	Documents map[domain.DocumentSlot]string
	Message   string
}

func (e *ValidationError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return msgFixFields
}

// Workflow is the registration/verification state machine: document
// upload, remote extraction, review with opt-in address correction,
// and account creation. All remote failures are mapped to user-facing
// strings and kept in local state; nothing propagates uncaught.
type Workflow struct {
	mu sync.Mutex

	step     Step
	front    *domain.Document
	back     *domain.Document
	consent  bool
	docErrs  map[domain.DocumentSlot]string
	identity *domain.IdentityRecord

	editAddress bool
	address     domain.Address

	credentials domain.AccountCredentials

	touched   map[Field]bool
	fieldErrs map[Field]string

	status string // user-facing status/error line
	notice string // success notification after account creation

	verifier ports.IdentityVerifier
	creator  ports.AccountCreator
	log      zerolog.Logger
}

// NewWorkflow creates a workflow in the document-submission step.
func NewWorkflow(verifier ports.IdentityVerifier, creator ports.AccountCreator, baseLogger *zerolog.Logger) *Workflow {
	w := &Workflow{
		verifier: verifier,
		creator:  creator,
		log:      baseLogger.With().Str("component", "registration").Logger(),
	}
	w.resetLocked()
	return w
}

// resetLocked returns every piece of workflow state to initial. The
// caller holds the mutex.
func (w *Workflow) resetLocked() {
	w.step = StepDocuments
	w.front = nil
	w.back = nil
	w.consent = false
	w.docErrs = make(map[domain.DocumentSlot]string)
	w.identity = nil
	w.editAddress = false
	w.address = domain.Address{}
	w.credentials = domain.AccountCredentials{}
	w.touched = make(map[Field]bool)
	w.fieldErrs = make(map[Field]string)
	w.status = ""
}

// --- Step 1: document submission ---

// AttachDocument validates and stores a document in its slot. An
// invalid file leaves the slot empty with a field-scoped error, so a
// later submit reports exactly one missing-file error per empty slot.
func (w *Workflow) AttachDocument(slot domain.DocumentSlot, doc *domain.Document) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if message := validate.Document(doc); message != "" {
		w.setSlotLocked(slot, nil)
		w.docErrs[slot] = message
		return
	}

	w.setSlotLocked(slot, doc)
	delete(w.docErrs, slot)
	w.status = ""
}

func (w *Workflow) setSlotLocked(slot domain.DocumentSlot, doc *domain.Document) {
	switch slot {
	case domain.DocumentFront:
		w.front = doc
	case domain.DocumentBack:
		w.back = doc
	}
}

// SetConsent records the explicit document-processing consent flag.
func (w *Workflow) SetConsent(consent bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.consent = consent
}

// SubmitDocuments runs the remote verification of both documents.
// Success populates the identity record and advances to review. Any
// failure keeps the user on step 1 with the slots intact; re-running
// repeats verification from scratch.
func (w *Workflow) SubmitDocuments(ctx context.Context) error {
	w.mu.Lock()
	if w.step != StepDocuments {
		w.mu.Unlock()
		return ErrWrongStep
	}

	missing := make(map[domain.DocumentSlot]string)
	if w.front == nil {
		missing[domain.DocumentFront] = validate.MsgDocumentRequired
	}
	if w.back == nil {
		missing[domain.DocumentBack] = validate.MsgDocumentRequired
	}
	if len(missing) > 0 || !w.consent {
		for slot, message := range missing {
			w.docErrs[slot] = message
		}
		message := msgFixFields
		if len(missing) == 0 {
			message = msgConsent
		}
		w.status = message
		w.mu.Unlock()
		return &ValidationError{Documents: missing, Message: message}
	}

	front, back, consent := *w.front, *w.back, w.consent
	w.mu.Unlock()

	record, err := w.verifier.Verify(ctx, front, back, consent)
	if err != nil {
		message := httpapi.MsgGenericRetry
		if httpapi.IsStatus(err, http.StatusTooManyRequests) {
			message = httpapi.MsgMaxAttempts
		}
		w.log.Warn().Err(err).Msg("Document verification failed")

		w.mu.Lock()
		w.status = message
		w.mu.Unlock()
		return fmt.Errorf("%s: %w", message, err)
	}

	record.NationalID = validate.NormalizeCURP(record.NationalID)

	w.mu.Lock()
	w.identity = record
	w.address = record.Address
	w.step = StepReview
	w.status = ""
	w.mu.Unlock()

	w.log.Info().Str("curp", record.NationalID).Msg("Identity verified, moving to review")
	return nil
}

// --- Step 2: review and confirm ---

// EnableAddressEdit opts into manual correction of the extracted
// address. Until called, the address sub-fields are read-only.
func (w *Workflow) EnableAddressEdit() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.editAddress = true
}

// AddressEditing reports whether manual correction is active.
func (w *Workflow) AddressEditing() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.editAddress
}

// SetAddressField updates one editable address field, re-running its
// validator. The error is recorded but only surfaced once the field
// is touched or a submit was attempted.
func (w *Workflow) SetAddressField(field Field, value string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.editAddress {
		return
	}

	switch field {
	case FieldStreet:
		w.address.Street = value
	case FieldExteriorNumber:
		w.address.ExteriorNumber = value
	case FieldPostalCode:
		w.address.PostalCode = value
	case FieldNeighborhood:
		w.address.Neighborhood = value
	default:
		return
	}
	w.validateAddressFieldLocked(field)
	w.status = ""
}

// Touch marks a field as blurred so its error text may surface.
func (w *Workflow) Touch(field Field) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.touched[field] = true
}

// FieldError returns the surfaced error for a field: empty until the
// field was touched or a submission attempt marked everything touched.
func (w *Workflow) FieldError(field Field) string {
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.touched[field] {
		return ""
	}
	return w.fieldErrs[field]
}

// DocumentError returns the error for a document slot, empty if none.
func (w *Workflow) DocumentError(slot domain.DocumentSlot) string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.docErrs[slot]
}

// Confirm accepts the reviewed identity and advances to account
// creation. With manual address editing active, all four address
// validators must pass or the transition is blocked with per-field
// errors.
func (w *Workflow) Confirm() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.step != StepReview {
		return ErrWrongStep
	}

	if w.editAddress {
		fields := []Field{FieldStreet, FieldExteriorNumber, FieldPostalCode, FieldNeighborhood}
		failed := make(map[Field]string)
		for _, field := range fields {
			w.touched[field] = true
			w.validateAddressFieldLocked(field)
			if message := w.fieldErrs[field]; message != "" {
				failed[field] = message
			}
		}
		if len(failed) > 0 {
			w.status = msgFixFields
			return &ValidationError{Fields: failed}
		}
		w.identity.Address = w.address
	}

	w.step = StepAccount
	w.status = ""
	return nil
}

// --- Step 3: account creation ---

// SetCredentials captures the account fields, re-running their
// validators for touched-aware display.
func (w *Workflow) SetCredentials(username, password string, acceptsTerms bool) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.credentials = domain.AccountCredentials{
		Username:     username,
		Password:     password,
		AcceptsTerms: acceptsTerms,
	}
	w.validateCredentialsLocked()
	w.status = ""
}

// CreateAccount submits the combined identity + account payload. On
// success the whole workflow resets to initial so a fresh registration
// can begin, and a success notice is surfaced.
func (w *Workflow) CreateAccount(ctx context.Context) error {
	w.mu.Lock()
	if w.step != StepAccount {
		w.mu.Unlock()
		return ErrWrongStep
	}

	for _, field := range []Field{FieldUsername, FieldPassword, FieldTerms} {
		w.touched[field] = true
	}
	w.validateCredentialsLocked()
	failed := make(map[Field]string)
	for _, field := range []Field{FieldUsername, FieldPassword, FieldTerms} {
		if message := w.fieldErrs[field]; message != "" {
			failed[field] = message
		}
	}
	if len(failed) > 0 {
		w.status = msgFixFields
		w.mu.Unlock()
		return &ValidationError{Fields: failed}
	}

	submission := domain.RegistrationSubmission{
		Identity:    *w.identity,
		Credentials: w.credentials,
	}
	w.mu.Unlock()

	if err := w.creator.SubmitRegistration(ctx, submission); err != nil {
		message := httpapi.UserMessage(err)
		w.log.Warn().Err(err).Msg("Account creation failed")

		w.mu.Lock()
		w.status = message
		w.mu.Unlock()
		return fmt.Errorf("%s: %w", message, err)
	}

	w.mu.Lock()
	w.resetLocked()
	w.notice = "Recibimos tu solicitud. Te contactaremos al validar tu documentacion."
	w.mu.Unlock()

	w.log.Info().Msg("Registration submitted, workflow reset")
	return nil
}

// --- Shared transitions and accessors ---

// Back moves exactly one step backward without clearing any entered
// data. It is unavailable from the first step.
func (w *Workflow) Back() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	switch w.step {
	case StepAccount:
		w.step = StepReview
	case StepReview:
		w.step = StepDocuments
	default:
		return ErrNoPreviousStep
	}
	w.status = ""
	return nil
}

// Step returns the current workflow step.
func (w *Workflow) Step() Step {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.step
}

// Identity returns a copy of the verified identity record, nil before
// verification succeeds.
func (w *Workflow) Identity() *domain.IdentityRecord {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.identity == nil {
		return nil
	}
	copied := *w.identity
	if w.editAddress {
		copied.Address = w.address
	}
	return &copied
}

// Status returns the current user-facing status/error line.
func (w *Workflow) Status() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.status
}

// Notice returns and clears the pending success notification.
func (w *Workflow) Notice() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	notice := w.notice
	w.notice = ""
	return notice
}

func (w *Workflow) validateAddressFieldLocked(field Field) {
	switch field {
	case FieldStreet:
		w.setFieldErrLocked(field, validate.NameLike(w.address.Street), msgStreet)
	case FieldExteriorNumber:
		w.setFieldErrLocked(field, validate.ExteriorNumber(w.address.ExteriorNumber), msgNumber)
	case FieldPostalCode:
		w.setFieldErrLocked(field, validate.PostalCode(w.address.PostalCode), msgPostalCode)
	case FieldNeighborhood:
		w.setFieldErrLocked(field, validate.NameLike(w.address.Neighborhood), msgNeighborhood)
	}
}

func (w *Workflow) validateCredentialsLocked() {
	w.setFieldErrLocked(FieldUsername, validate.Email(w.credentials.Username), msgUsername)
	w.setFieldErrLocked(FieldPassword, validate.SecurePassword(w.credentials.Password, validate.PasswordMinLength), msgPassword)
	w.setFieldErrLocked(FieldTerms, w.credentials.AcceptsTerms, msgTerms)
}

func (w *Workflow) setFieldErrLocked(field Field, ok bool, message string) {
	if ok {
		delete(w.fieldErrs, field)
		return
	}
	w.fieldErrs[field] = message
}
