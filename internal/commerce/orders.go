package commerce

import (
	"context"
	"time"

	"github.com/machinebox/graphql"
	"github.com/shopspring/decimal"

	"github.com/shopadm/admin-gateway/internal/domain"
)

const getOrdersQuery = `
query GetOrders($first: Int!) {
  orders(first: $first) {
    edges {
      node {
        id
        name
        email
        phone
        totalPriceSet {
          shopMoney {
            amount
            currencyCode
          }
        }
        displayFulfillmentStatus
        displayFinancialStatus
        createdAt
        updatedAt
        tags
        customer {
          id
          firstName
          lastName
        }
        lineItems(first: 10) {
          edges {
            node {
              title
              quantity
            }
          }
        }
      }
    }
  }
}`

const getOrderQuery = `
query GetOrder($id: ID!) {
  order(id: $id) {
    id
    name
    email
    phone
    note
    totalPriceSet {
      shopMoney {
        amount
        currencyCode
      }
    }
    displayFulfillmentStatus
    displayFinancialStatus
    createdAt
    updatedAt
    cancelledAt
    cancelReason
    tags
    customer {
      id
      displayName
      firstName
      lastName
      email
    }
    lineItems(first: 50) {
      edges {
        node {
          id
          title
          quantity
          variant {
            id
            title
            price
          }
        }
      }
    }
  }
}`

const orderCancelMutation = `
mutation OrderCancel($id: ID!, $reason: OrderCancelReason) {
  orderCancel(id: $id, reason: $reason) {
    order {
      id
      cancelledAt
    }
    userErrors {
      field
      message
    }
  }
}`

const orderDeleteMutation = `
mutation OrderDelete($orderId: ID!) {
  orderDelete(orderId: $orderId) {
    deletedId
    userErrors {
      field
      message
    }
  }
}`

type moneySet struct {
	ShopMoney struct {
		Amount       decimal.Decimal `json:"amount"`
		CurrencyCode string          `json:"currencyCode"`
	} `json:"shopMoney"`
}

type orderNode struct {
	ID                       string     `json:"id"`
	Name                     string     `json:"name"`
	Email                    string     `json:"email"`
	Phone                    string     `json:"phone"`
	Note                     string     `json:"note"`
	TotalPriceSet            moneySet   `json:"totalPriceSet"`
	DisplayFulfillmentStatus string     `json:"displayFulfillmentStatus"`
	DisplayFinancialStatus   string     `json:"displayFinancialStatus"`
	CreatedAt                time.Time  `json:"createdAt"`
	UpdatedAt                time.Time  `json:"updatedAt"`
	CancelledAt              *time.Time `json:"cancelledAt"`
	CancelReason             string     `json:"cancelReason"`
	Tags                     []string   `json:"tags"`
	Customer                 *struct {
		ID          string `json:"id"`
		DisplayName string `json:"displayName"`
		FirstName   string `json:"firstName"`
		LastName    string `json:"lastName"`
		Email       string `json:"email"`
	} `json:"customer"`
	LineItems struct {
		Edges []struct {
			Node struct {
				ID       string `json:"id"`
				Title    string `json:"title"`
				Quantity int    `json:"quantity"`
				Variant  *struct {
					ID    string          `json:"id"`
					Title string          `json:"title"`
					Price decimal.Decimal `json:"price"`
				} `json:"variant"`
			} `json:"node"`
		} `json:"edges"`
	} `json:"lineItems"`
}

func (n orderNode) toDomain() domain.Order {
	o := domain.Order{
		ID:                       n.ID,
		Name:                     n.Name,
		Email:                    n.Email,
		Phone:                    n.Phone,
		Note:                     n.Note,
		TotalPrice:               n.TotalPriceSet.ShopMoney.Amount,
		Currency:                 n.TotalPriceSet.ShopMoney.CurrencyCode,
		DisplayFinancialStatus:   n.DisplayFinancialStatus,
		DisplayFulfillmentStatus: n.DisplayFulfillmentStatus,
		Tags:                     n.Tags,
		CreatedAt:                n.CreatedAt,
		UpdatedAt:                n.UpdatedAt,
		CancelledAt:              n.CancelledAt,
		CancelReason:             n.CancelReason,
	}
	if n.Customer != nil {
		name := n.Customer.DisplayName
		if name == "" {
			name = n.Customer.FirstName + " " + n.Customer.LastName
		}
		o.Customer = &domain.Customer{
			ID:          n.Customer.ID,
			DisplayName: name,
			FirstName:   n.Customer.FirstName,
			LastName:    n.Customer.LastName,
			Email:       n.Customer.Email,
		}
	}
	for _, e := range n.LineItems.Edges {
		li := domain.OrderLineItem{
			ID:       e.Node.ID,
			Title:    e.Node.Title,
			Quantity: e.Node.Quantity,
		}
		if e.Node.Variant != nil {
			li.VariantID = e.Node.Variant.ID
			li.UnitPrice = e.Node.Variant.Price
		}
		o.LineItems = append(o.LineItems, li)
	}
	return o
}

func (c *Client) Orders(ctx context.Context, first int) ([]domain.Order, error) {
	req := graphql.NewRequest(getOrdersQuery)
	req.Var("first", first)

	var resp struct {
		Orders struct {
			Edges []struct {
				Node orderNode `json:"node"`
			} `json:"edges"`
		} `json:"orders"`
	}
	if err := c.run(ctx, req, &resp); err != nil {
		return nil, err
	}
	orders := make([]domain.Order, 0, len(resp.Orders.Edges))
	for _, e := range resp.Orders.Edges {
		orders = append(orders, e.Node.toDomain())
	}
	return orders, nil
}

func (c *Client) Order(ctx context.Context, id string) (*domain.Order, error) {
	req := graphql.NewRequest(getOrderQuery)
	req.Var("id", gid("Order", id))

	var resp struct {
		Order *orderNode `json:"order"`
	}
	if err := c.run(ctx, req, &resp); err != nil {
		return nil, err
	}
	if resp.Order == nil {
		return nil, ErrNotFound
	}
	o := resp.Order.toDomain()
	return &o, nil
}

func (c *Client) CancelOrder(ctx context.Context, id, reason string) ([]domain.UserError, error) {
	req := graphql.NewRequest(orderCancelMutation)
	req.Var("id", gid("Order", id))
	if reason != "" {
		req.Var("reason", reason)
	}

	var resp struct {
		OrderCancel struct {
			Order *struct {
				ID          string     `json:"id"`
				CancelledAt *time.Time `json:"cancelledAt"`
			} `json:"order"`
			UserErrors []userError `json:"userErrors"`
		} `json:"orderCancel"`
	}
	if err := c.run(ctx, req, &resp); err != nil {
		return nil, err
	}
	if len(resp.OrderCancel.UserErrors) > 0 {
		return toDomainErrors(resp.OrderCancel.UserErrors), nil
	}
	return nil, nil
}

func (c *Client) DeleteOrder(ctx context.Context, id string) ([]domain.UserError, error) {
	req := graphql.NewRequest(orderDeleteMutation)
	req.Var("orderId", gid("Order", id))

	var resp struct {
		OrderDelete struct {
			DeletedID  *string     `json:"deletedId"`
			UserErrors []userError `json:"userErrors"`
		} `json:"orderDelete"`
	}
	if err := c.run(ctx, req, &resp); err != nil {
		return nil, err
	}
	if len(resp.OrderDelete.UserErrors) > 0 {
		return toDomainErrors(resp.OrderDelete.UserErrors), nil
	}
	return nil, nil
}
