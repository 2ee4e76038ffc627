package controller

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"librarian_backend/internals/features/users/user/dto"
	"librarian_backend/internals/features/users/user/model"
	helper "librarian_backend/internals/helpers"
)

type UserCreator interface {
	CreateUser(ctx context.Context, req dto.CreateUserRequest) (*model.UserModel, error)
}

type UserController struct {
	svc UserCreator
}

func NewUserController(svc UserCreator) *UserController {
	return &UserController{svc: svc}
}

// POST /api/librarian/create_user
func (uc *UserController) CreateUser(c *fiber.Ctx) error {
	var req dto.CreateUserRequest
	if err := helper.ParseBody(c, &req); err != nil {
		return helper.FromError(c, err)
	}

	user, err := uc.svc.CreateUser(c.UserContext(), req)
	if err != nil {
		return helper.FromError(c, err)
	}

	return helper.JsonCreated(c, "User created successfully", dto.FromModel(user))
}
