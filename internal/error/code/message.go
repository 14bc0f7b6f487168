package code

var codeMessageMap = map[int]string{
	ErrSuccess:         "Sucesso",
	ErrUnknown:         "Erro desconhecido",
	ErrBind:            "Parâmetros da requisição inválidos",
	ErrValidation:      "Falha na validação dos parâmetros",
	ErrTokenInvalid:    "Sessão inválida ou expirada",
	ErrTooManyRequests: "Muitas requisições, tente novamente mais tarde",
	ErrForbidden:       "Acesso negado.",

	ErrUserNotFound:          "Usuário não encontrado",
	ErrUserPasswordIncorrect: "Usuário ou senha inválidos",

	ErrStationNotFound: "Posto não encontrado",

	ErrMaintenanceNotFound:     "Manutenção não encontrada",
	ErrDeletePasswordIncorrect: "Senha incorreta",
	ErrInvalidTransition:       "Transição de status não permitida",
	ErrReportGeneration:        "Erro ao gerar PDF",

	ErrChecklistItemNotFound: "Item do checklist não encontrado",
	ErrPhotoInvalid:          "Foto inválida",
	ErrStorage:               "Erro no armazenamento de arquivos",

	ErrDraftNotFound: "Nenhum rascunho encontrado",
	ErrDraftStore:    "Armazenamento de rascunhos indisponível",

	ErrDatabase:       "Erro de banco de dados",
	ErrRecordNotFound: "Registro não encontrado",
}

var codeStatusMap = map[int]int{
	ErrSuccess:         StatusOK,
	ErrUnknown:         StatusInternalServerError,
	ErrBind:            StatusBadRequest,
	ErrValidation:      StatusBadRequest,
	ErrTokenInvalid:    StatusUnauthorized,
	ErrTooManyRequests: StatusTooManyRequests,
	ErrForbidden:       StatusForbidden,

	ErrUserNotFound:          StatusNotFound,
	ErrUserPasswordIncorrect: StatusUnauthorized,

	ErrStationNotFound: StatusNotFound,

	ErrMaintenanceNotFound:     StatusNotFound,
	ErrDeletePasswordIncorrect: StatusUnauthorized,
	ErrInvalidTransition:       StatusConflict,
	ErrReportGeneration:        StatusInternalServerError,

	ErrChecklistItemNotFound: StatusNotFound,
	ErrPhotoInvalid:          StatusBadRequest,
	ErrStorage:               StatusInternalServerError,

	ErrDraftNotFound: StatusNotFound,
	ErrDraftStore:    StatusInternalServerError,

	ErrDatabase:       StatusInternalServerError,
	ErrRecordNotFound: StatusNotFound,
}

// GetMessage returns the default message for a code.
func GetMessage(code int) string {
	if msg, ok := codeMessageMap[code]; ok {
		return msg
	}
	return "Erro desconhecido"
}

// GetStatus returns the HTTP status for a code.
func GetStatus(code int) int {
	if status, ok := codeStatusMap[code]; ok {
		return status
	}
	return StatusInternalServerError
}

// GetRPCCode names the error class clients switch on.
func GetRPCCode(code int) string {
	switch GetStatus(code) {
	case StatusOK:
		return ""
	case StatusBadRequest:
		return "BAD_REQUEST"
	case StatusUnauthorized:
		return "UNAUTHORIZED"
	case StatusForbidden:
		return "FORBIDDEN"
	case StatusNotFound:
		return "NOT_FOUND"
	case StatusConflict:
		return "CONFLICT"
	case StatusTooManyRequests:
		return "TOO_MANY_REQUESTS"
	default:
		return "INTERNAL_SERVER_ERROR"
	}
}
