package codec

import (
	"fmt"
	"time"

	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/unkn0wn-root/storefront/catalog"
)

// ProductsProto encodes a product list as a protobuf structpb.ListValue, one
// Struct per product. Readers in other languages can decode the snapshot with
// nothing but the well-known types.
type ProductsProto struct{}

var _ Codec[[]catalog.Product] = ProductsProto{}

func (ProductsProto) Encode(ps []catalog.Product) ([]byte, error) {
	list := &structpb.ListValue{Values: make([]*structpb.Value, 0, len(ps))}
	for _, p := range ps {
		s, err := structpb.NewStruct(map[string]any{
			"id":          p.ID,
			"name":        p.Name,
			"description": p.Description,
			"price":       p.Price,
			"image":       p.Image,
			"category":    p.Category,
			"is_featured": p.IsFeatured,
			"created_at":  p.CreatedAt.Format(time.RFC3339Nano),
			"updated_at":  p.UpdatedAt.Format(time.RFC3339Nano),
		})
		if err != nil {
			return nil, err
		}
		list.Values = append(list.Values, structpb.NewStructValue(s))
	}
	return proto.MarshalOptions{Deterministic: true}.Marshal(list)
}

func (ProductsProto) Decode(b []byte) ([]catalog.Product, error) {
	var list structpb.ListValue
	if err := proto.Unmarshal(b, &list); err != nil {
		return nil, err
	}
	out := make([]catalog.Product, 0, len(list.GetValues()))
	for i, v := range list.GetValues() {
		s := v.GetStructValue()
		if s == nil {
			return nil, fmt.Errorf("proto snapshot: item %d is not a struct", i)
		}
		f := s.GetFields()
		p := catalog.Product{
			ID:          f["id"].GetStringValue(),
			Name:        f["name"].GetStringValue(),
			Description: f["description"].GetStringValue(),
			Price:       f["price"].GetNumberValue(),
			Image:       f["image"].GetStringValue(),
			Category:    f["category"].GetStringValue(),
			IsFeatured:  f["is_featured"].GetBoolValue(),
		}
		var err error
		if p.CreatedAt, err = time.Parse(time.RFC3339Nano, f["created_at"].GetStringValue()); err != nil {
			return nil, fmt.Errorf("proto snapshot: item %d created_at: %w", i, err)
		}
		if p.UpdatedAt, err = time.Parse(time.RFC3339Nano, f["updated_at"].GetStringValue()); err != nil {
			return nil, fmt.Errorf("proto snapshot: item %d updated_at: %w", i, err)
		}
		out = append(out, p)
	}
	return out, nil
}
