package dto

// Item lines included in cart and order emails.
type EmailItem struct {
	Nombre   string `json:"nombre"   validate:"required"`
	Modelo   string `json:"modelo"`
	Color    string `json:"color"`
	Cantidad int    `json:"cantidad" validate:"required,min=1"`
	Precio   string `json:"precio"   validate:"required"`
}

type CartEmailRequest struct {
	Email string      `json:"email" validate:"required,email"`
	Items []EmailItem `json:"items" validate:"required,min=1,dive"`
}

type ContactEmailRequest struct {
	Email   string `json:"email"   validate:"required,email"`
	Nombre  string `json:"nombre"  validate:"required,min=2,max=100"`
	Mensaje string `json:"mensaje" validate:"required,min=1,max=2000"`
}

type OrderEmailRequest struct {
	Email     string      `json:"email"     validate:"required,email"`
	Nombre    string      `json:"nombre"    validate:"required,min=2,max=100"`
	Telefono  string      `json:"telefono"  validate:"required,min=6,max=20"`
	Direccion string      `json:"direccion" validate:"required,min=5,max=300"`
	Items     []EmailItem `json:"items"     validate:"required,min=1,dive"`
	Total     string      `json:"total"     validate:"required"`
}

type EmailResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}
