package commerce

import (
	"context"

	"github.com/machinebox/graphql"

	"github.com/shopadm/admin-gateway/internal/domain"
)

// DraftOrderAPI is the slice of the platform the checkout sequencer drives:
// create a draft order, then complete it into a real order.
type DraftOrderAPI interface {
	CreateDraftOrder(ctx context.Context, sub domain.OrderSubmission) (draftID string, userErrs []domain.UserError, err error)
	CompleteDraftOrder(ctx context.Context, draftID string) (userErrs []domain.UserError, err error)
}

const draftOrderCreateMutation = `
mutation draftOrderCreate($input: DraftOrderInput!) {
  draftOrderCreate(input: $input) {
    draftOrder {
      id
      name
    }
    userErrors {
      field
      message
    }
  }
}`

const draftOrderCompleteMutation = `
mutation draftOrderComplete($id: ID!) {
  draftOrderComplete(id: $id) {
    draftOrder {
      id
      order {
        id
        name
      }
    }
    userErrors {
      field
      message
    }
  }
}`

type draftOrderLineItemInput struct {
	VariantID string `json:"variantId"`
	Quantity  int    `json:"quantity"`
}

type draftOrderInput struct {
	LineItems                 []draftOrderLineItemInput `json:"lineItems"`
	CustomerID                *string                   `json:"customerId"`
	Tags                      []string                  `json:"tags"`
	Note                      *string                   `json:"note"`
	UseCustomerDefaultAddress bool                      `json:"useCustomerDefaultAddress"`
}

func (c *Client) CreateDraftOrder(ctx context.Context, sub domain.OrderSubmission) (string, []domain.UserError, error) {
	lineItems := make([]draftOrderLineItemInput, 0, len(sub.Lines))
	for _, l := range sub.Lines {
		lineItems = append(lineItems, draftOrderLineItemInput{VariantID: l.VariantID, Quantity: l.Quantity})
	}
	input := draftOrderInput{
		LineItems:                 lineItems,
		Tags:                      sub.Tags,
		UseCustomerDefaultAddress: true,
	}
	if sub.CustomerID != "" {
		id := gid("Customer", sub.CustomerID)
		input.CustomerID = &id
	}
	if sub.Note != "" {
		note := sub.Note
		input.Note = &note
	}

	req := graphql.NewRequest(draftOrderCreateMutation)
	req.Var("input", input)

	var resp struct {
		DraftOrderCreate struct {
			DraftOrder *struct {
				ID   string `json:"id"`
				Name string `json:"name"`
			} `json:"draftOrder"`
			UserErrors []userError `json:"userErrors"`
		} `json:"draftOrderCreate"`
	}
	if err := c.run(ctx, req, &resp); err != nil {
		return "", nil, err
	}
	if len(resp.DraftOrderCreate.UserErrors) > 0 {
		return "", toDomainErrors(resp.DraftOrderCreate.UserErrors), nil
	}
	if resp.DraftOrderCreate.DraftOrder == nil {
		return "", nil, errMalformedResponse("draftOrderCreate")
	}
	return resp.DraftOrderCreate.DraftOrder.ID, nil, nil
}

func (c *Client) CompleteDraftOrder(ctx context.Context, draftID string) ([]domain.UserError, error) {
	req := graphql.NewRequest(draftOrderCompleteMutation)
	req.Var("id", draftID)

	var resp struct {
		DraftOrderComplete struct {
			DraftOrder *struct {
				ID    string `json:"id"`
				Order *struct {
					ID   string `json:"id"`
					Name string `json:"name"`
				} `json:"order"`
			} `json:"draftOrder"`
			UserErrors []userError `json:"userErrors"`
		} `json:"draftOrderComplete"`
	}
	if err := c.run(ctx, req, &resp); err != nil {
		return nil, err
	}
	if len(resp.DraftOrderComplete.UserErrors) > 0 {
		return toDomainErrors(resp.DraftOrderComplete.UserErrors), nil
	}
	return nil, nil
}
