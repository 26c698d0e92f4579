package controllers

import (
	"errors"

	"procurement-app/database"
	"procurement-app/models"
	"procurement-app/repositories"

	"github.com/gofiber/fiber/v2"
)

type ProductController struct{}

type productInput struct {
	ItemCode string `json:"item_code" validate:"required,min=3"`
	ItemName string `json:"item_name" validate:"required,min=3"`
	Uom      string `json:"uom" validate:"required"`
	Category string `json:"category"`
}

func (pc *ProductController) GetAllProducts(c *fiber.Ctx) error {
	products, err := repositories.NewProductRepository(database.DB(c)).FindAll(c.UserContext(), c.Query("search"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "data": products})
}

func (pc *ProductController) GetProductByID(c *fiber.Ctx) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}
	product, err := repositories.NewProductRepository(database.DB(c)).FindByID(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "message": "Product found", "data": product})
}

func (pc *ProductController) CreateProduct(c *fiber.Ctx) error {
	var in productInput
	if err := parseBody(c, &in); err != nil {
		return err
	}

	product := models.Product{
		ItemCode: in.ItemCode,
		ItemName: in.ItemName,
		Uom:      in.Uom,
		Category: in.Category,
	}
	if err := repositories.NewProductRepository(database.DB(c)).Create(c.UserContext(), &product); err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "message": "Product created successfully", "data": product})
}

func (pc *ProductController) UpdateProduct(c *fiber.Ctx) error {
	id, err := idParam(c)
	if err != nil {
		return err
	}
	var in productInput
	if err := parseBody(c, &in); err != nil {
		return err
	}

	repo := repositories.NewProductRepository(database.DB(c))
	product, err := repo.FindByID(c.UserContext(), id)
	if errors.Is(err, repositories.ErrNotFound) {
		return fiber.NewError(fiber.StatusNotFound, "Product not found")
	}
	if err != nil {
		return err
	}

	product.ItemCode = in.ItemCode
	product.ItemName = in.ItemName
	product.Uom = in.Uom
	product.Category = in.Category
	if err := repo.Update(c.UserContext(), product); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "message": "Product updated successfully", "data": product})
}
