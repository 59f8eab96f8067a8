package overpass

import (
	"fmt"
	"strings"
	"time"
)

const defaultQueryTimeout = 50 * time.Second

// Query is an OverpassQL statement plus the server-side timeout it declares.
type Query struct {
	Body    string
	Timeout time.Duration
}

// CarRelatedBusinesses builds the country-wide extract of car-related POIs.
// The country code is an ISO3166-1 alpha-2 value, e.g. "BG". A non-positive
// timeout falls back to the default server-side budget.
func CarRelatedBusinesses(countryCode string, timeout time.Duration) Query {
	if timeout <= 0 {
		timeout = defaultQueryTimeout
	}
	code := strings.ToUpper(strings.TrimSpace(countryCode))
	body := fmt.Sprintf(`[out:json][timeout:%d];
area["ISO3166-1"="%s"][admin_level=2]->.searchArea;

(
  node["amenity"="car_wash"](area.searchArea);
  node["amenity"="fuel"](area.searchArea);
  node["amenity"="charging_station"](area.searchArea);
  node["amenity"="car_rental"](area.searchArea);
  node["amenity"="parking"](area.searchArea);
  node["shop"="car_repair"](area.searchArea);
  node["shop"="car"](area.searchArea);
  node["shop"="car_parts"](area.searchArea);
  node["shop"="tyres"](area.searchArea);
  node["craft"="car_repair"](area.searchArea);
  node["service"="vehicle_inspection"](area.searchArea);
);
out body;
>;
out skel qt;`, int(timeout.Seconds()), code)

	return Query{Body: body, Timeout: timeout}
}
