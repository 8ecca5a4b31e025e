package commerce

import (
	"context"

	"github.com/machinebox/graphql"
	"github.com/shopspring/decimal"

	"github.com/shopadm/admin-gateway/internal/domain"
)

const getProductsQuery = `
query getProducts($first: Int!) {
  products(first: $first) {
    edges {
      node {
        id
        title
        handle
        status
        totalInventory
        variants(first: 10) {
          edges {
            node {
              id
              title
              price
              inventoryQuantity
              sku
              image {
                url
                altText
              }
            }
          }
        }
        featuredImage {
          url
          altText
        }
      }
    }
  }
}`

const getProductQuery = `
query getProduct($id: ID!) {
  product(id: $id) {
    id
    title
    handle
    status
    totalInventory
    variants(first: 50) {
      edges {
        node {
          id
          title
          price
          inventoryQuantity
          sku
          image {
            url
            altText
          }
        }
      }
    }
    featuredImage {
      url
      altText
    }
  }
}`

const getProductsCountQuery = `
query getProductsCount {
  productsCount {
    count
  }
}`

const productCreateMutation = `
mutation productCreate($input: ProductInput!) {
  productCreate(input: $input) {
    product {
      id
      title
      handle
      status
    }
    userErrors {
      field
      message
    }
  }
}`

type imageNode struct {
	URL     string `json:"url"`
	AltText string `json:"altText"`
}

type variantNode struct {
	ID                string          `json:"id"`
	Title             string          `json:"title"`
	Price             decimal.Decimal `json:"price"`
	InventoryQuantity int             `json:"inventoryQuantity"`
	SKU               string          `json:"sku"`
	Image             *imageNode      `json:"image"`
}

type productNode struct {
	ID             string `json:"id"`
	Title          string `json:"title"`
	Handle         string `json:"handle"`
	Status         string `json:"status"`
	TotalInventory int    `json:"totalInventory"`
	Variants       struct {
		Edges []struct {
			Node variantNode `json:"node"`
		} `json:"edges"`
	} `json:"variants"`
	FeaturedImage *imageNode `json:"featuredImage"`
}

func (n *imageNode) toDomain() *domain.Image {
	if n == nil {
		return nil
	}
	return &domain.Image{URL: n.URL, AltText: n.AltText}
}

func (n productNode) toDomain() domain.Product {
	variants := make([]domain.Variant, 0, len(n.Variants.Edges))
	for _, e := range n.Variants.Edges {
		variants = append(variants, domain.Variant{
			ID:                e.Node.ID,
			Title:             e.Node.Title,
			Price:             e.Node.Price,
			SKU:               e.Node.SKU,
			InventoryQuantity: e.Node.InventoryQuantity,
			Image:             e.Node.Image.toDomain(),
		})
	}
	return domain.Product{
		ID:             n.ID,
		Title:          n.Title,
		Handle:         n.Handle,
		Status:         n.Status,
		TotalInventory: n.TotalInventory,
		Variants:       variants,
		FeaturedImage:  n.FeaturedImage.toDomain(),
	}
}

func (c *Client) Products(ctx context.Context, first int) ([]domain.Product, error) {
	req := graphql.NewRequest(getProductsQuery)
	req.Var("first", first)

	var resp struct {
		Products struct {
			Edges []struct {
				Node productNode `json:"node"`
			} `json:"edges"`
		} `json:"products"`
	}
	if err := c.run(ctx, req, &resp); err != nil {
		return nil, err
	}
	products := make([]domain.Product, 0, len(resp.Products.Edges))
	for _, e := range resp.Products.Edges {
		products = append(products, e.Node.toDomain())
	}
	return products, nil
}

func (c *Client) Product(ctx context.Context, id string) (*domain.Product, error) {
	req := graphql.NewRequest(getProductQuery)
	req.Var("id", gid("Product", id))

	var resp struct {
		Product *productNode `json:"product"`
	}
	if err := c.run(ctx, req, &resp); err != nil {
		return nil, err
	}
	if resp.Product == nil {
		return nil, ErrNotFound
	}
	p := resp.Product.toDomain()
	return &p, nil
}

func (c *Client) ProductsCount(ctx context.Context) (int, error) {
	req := graphql.NewRequest(getProductsCountQuery)

	var resp struct {
		ProductsCount struct {
			Count int `json:"count"`
		} `json:"productsCount"`
	}
	if err := c.run(ctx, req, &resp); err != nil {
		return 0, err
	}
	return resp.ProductsCount.Count, nil
}

type productVariantInput struct {
	Price               string `json:"price"`
	InventoryQuantity   int    `json:"inventoryQuantity"`
	SKU                 string `json:"sku"`
	InventoryManagement string `json:"inventoryManagement"`
}

type productInput struct {
	Title           string                `json:"title"`
	DescriptionHTML string                `json:"descriptionHtml"`
	Status          string                `json:"status,omitempty"`
	ProductType     string                `json:"productType"`
	Vendor          string                `json:"vendor"`
	Tags            []string              `json:"tags"`
	Handle          string                `json:"handle,omitempty"`
	Variants        []productVariantInput `json:"variants"`
}

func (c *Client) CreateProduct(ctx context.Context, in domain.NewProduct) (*domain.Product, []domain.UserError, error) {
	input := productInput{
		Title:           in.Title,
		DescriptionHTML: in.Description,
		Status:          in.Status,
		ProductType:     in.ProductType,
		Vendor:          in.Vendor,
		Tags:            in.Tags,
		Handle:          in.Handle,
		Variants: []productVariantInput{{
			Price:               in.Price.StringFixed(2),
			InventoryQuantity:   in.Inventory,
			SKU:                 in.SKU,
			InventoryManagement: "SHOPIFY",
		}},
	}

	req := graphql.NewRequest(productCreateMutation)
	req.Var("input", input)

	var resp struct {
		ProductCreate struct {
			Product    *productNode `json:"product"`
			UserErrors []userError  `json:"userErrors"`
		} `json:"productCreate"`
	}
	if err := c.run(ctx, req, &resp); err != nil {
		return nil, nil, err
	}
	if len(resp.ProductCreate.UserErrors) > 0 {
		return nil, toDomainErrors(resp.ProductCreate.UserErrors), nil
	}
	if resp.ProductCreate.Product == nil {
		return nil, nil, errMalformedResponse("productCreate")
	}
	p := resp.ProductCreate.Product.toDomain()
	return &p, nil, nil
}
