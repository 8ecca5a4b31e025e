package commerce

import (
	"context"

	"github.com/machinebox/graphql"

	"github.com/shopadm/admin-gateway/internal/domain"
)

const getCustomersQuery = `
query getCustomers($first: Int!) {
  customers(first: $first) {
    edges {
      node {
        id
        displayName
        firstName
        lastName
        email
        phone
      }
    }
  }
}`

const getCustomerQuery = `
query getCustomer($id: ID!) {
  customer(id: $id) {
    id
    displayName
    firstName
    lastName
    email
    phone
  }
}`

const customerCreateMutation = `
mutation customerCreate($input: CustomerInput!) {
  customerCreate(input: $input) {
    customer {
      id
      displayName
      email
    }
    userErrors {
      field
      message
    }
  }
}`

type customerNode struct {
	ID          string `json:"id"`
	DisplayName string `json:"displayName"`
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
}

func (n customerNode) toDomain() domain.Customer {
	return domain.Customer{
		ID:          n.ID,
		DisplayName: n.DisplayName,
		FirstName:   n.FirstName,
		LastName:    n.LastName,
		Email:       n.Email,
		Phone:       n.Phone,
	}
}

func (c *Client) Customers(ctx context.Context, first int) ([]domain.Customer, error) {
	req := graphql.NewRequest(getCustomersQuery)
	req.Var("first", first)

	var resp struct {
		Customers struct {
			Edges []struct {
				Node customerNode `json:"node"`
			} `json:"edges"`
		} `json:"customers"`
	}
	if err := c.run(ctx, req, &resp); err != nil {
		return nil, err
	}
	customers := make([]domain.Customer, 0, len(resp.Customers.Edges))
	for _, e := range resp.Customers.Edges {
		customers = append(customers, e.Node.toDomain())
	}
	return customers, nil
}

func (c *Client) Customer(ctx context.Context, id string) (*domain.Customer, error) {
	req := graphql.NewRequest(getCustomerQuery)
	req.Var("id", gid("Customer", id))

	var resp struct {
		Customer *customerNode `json:"customer"`
	}
	if err := c.run(ctx, req, &resp); err != nil {
		return nil, err
	}
	if resp.Customer == nil {
		return nil, ErrNotFound
	}
	cust := resp.Customer.toDomain()
	return &cust, nil
}

type customerInput struct {
	FirstName        string   `json:"firstName"`
	LastName         string   `json:"lastName"`
	Email            string   `json:"email"`
	Phone            string   `json:"phone,omitempty"`
	AcceptsMarketing bool     `json:"acceptsMarketing"`
	Note             string   `json:"note,omitempty"`
	Tags             []string `json:"tags"`
}

func (c *Client) CreateCustomer(ctx context.Context, in domain.NewCustomer) (*domain.Customer, []domain.UserError, error) {
	input := customerInput{
		FirstName:        in.FirstName,
		LastName:         in.LastName,
		Email:            in.Email,
		Phone:            in.Phone,
		AcceptsMarketing: in.AcceptsMarketing,
		Note:             in.Note,
		Tags:             in.Tags,
	}

	req := graphql.NewRequest(customerCreateMutation)
	req.Var("input", input)

	var resp struct {
		CustomerCreate struct {
			Customer   *customerNode `json:"customer"`
			UserErrors []userError   `json:"userErrors"`
		} `json:"customerCreate"`
	}
	if err := c.run(ctx, req, &resp); err != nil {
		return nil, nil, err
	}
	if len(resp.CustomerCreate.UserErrors) > 0 {
		return nil, toDomainErrors(resp.CustomerCreate.UserErrors), nil
	}
	if resp.CustomerCreate.Customer == nil {
		return nil, nil, errMalformedResponse("customerCreate")
	}
	cust := resp.CustomerCreate.Customer.toDomain()
	return &cust, nil, nil
}
