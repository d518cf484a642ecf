package postgres

import (
	"strings"
	"testing"
	"testing/fstest"

	"github.com/jhoicas/mercado-api/internal/domain/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMigrationsFromFS_OrdenaPorVersion(t *testing.T) {
	fsys := fstest.MapFS{
		"sql/migrations/0002_more.up.sql":   {Data: []byte("CREATE TABLE b (id INT);")},
		"sql/migrations/0002_more.down.sql": {Data: []byte("DROP TABLE b;")},
		"sql/migrations/0001_init.up.sql":   {Data: []byte("CREATE TABLE a (id INT);")},
		"sql/migrations/0001_init.down.sql": {Data: []byte("DROP TABLE a;")},
	}

	migrations, err := loadMigrationsFromFS(fsys)
	require.NoError(t, err)
	require.Len(t, migrations, 2)
	assert.Equal(t, int64(1), migrations[0].Version)
	assert.Equal(t, "init", migrations[0].Name)
	assert.Equal(t, int64(2), migrations[1].Version)
	assert.Equal(t, "DROP TABLE b;", migrations[1].DownSQL)
}

func TestLoadMigrationsFromFS_SinDown(t *testing.T) {
	fsys := fstest.MapFS{
		"sql/migrations/0001_init.up.sql": {Data: []byte("CREATE TABLE a (id INT);")},
	}
	_, err := loadMigrationsFromFS(fsys)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "both up and down")
}

func TestLoadMigrationsFromFS_NombreInvalido(t *testing.T) {
	fsys := fstest.MapFS{
		"sql/migrations/not_a_migration.sql": {Data: []byte("SELECT 1;")},
	}
	_, err := loadMigrationsFromFS(fsys)
	assert.Error(t, err)
}

func TestLoadMigrationsFromFS_ArchivoVacio(t *testing.T) {
	fsys := fstest.MapFS{
		"sql/migrations/0001_init.up.sql":   {Data: []byte("   ")},
		"sql/migrations/0001_init.down.sql": {Data: []byte("DROP TABLE a;")},
	}
	_, err := loadMigrationsFromFS(fsys)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty")
}

func TestLoadMigrationsFromFS_NombresDistintosMismaVersion(t *testing.T) {
	fsys := fstest.MapFS{
		"sql/migrations/0001_init.up.sql":   {Data: []byte("CREATE TABLE a (id INT);")},
		"sql/migrations/0001_otro.down.sql": {Data: []byte("DROP TABLE a;")},
	}
	_, err := loadMigrationsFromFS(fsys)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "mismatch")
}

func TestMigracionesEmbebidas(t *testing.T) {
	migrations, err := loadMigrationsFromFS(migrationsFS)
	require.NoError(t, err)
	require.NotEmpty(t, migrations)
	assert.Contains(t, migrations[0].UpSQL, "CREATE TABLE IF NOT EXISTS orders")
	assert.Contains(t, migrations[0].DownSQL, "DROP TABLE IF EXISTS orders")

	require.GreaterOrEqual(t, len(migrations), 2)
	assert.Equal(t, "user_phone", migrations[1].Name)
	assert.Contains(t, migrations[1].UpSQL, "ADD COLUMN IF NOT EXISTS phone")
	assert.Contains(t, migrations[1].DownSQL, "DROP COLUMN IF EXISTS phone")
}

func TestOrderList_UneClienteYDireccion(t *testing.T) {
	assert.Contains(t, orderFrom, "JOIN users u ON u.id = o.client_id")
	assert.Contains(t, orderFrom, "LEFT JOIN delivery_addresses a ON a.id = o.address_id")
	assert.Equal(t, 9, len(strings.Split(orderContactColumns, ",")), "cada columna tiene su destino en el Scan")
}

func TestOrderWhere(t *testing.T) {
	owner := "8f14e45f-ceea-4e67-a3b2-2f1b0c8c2d11"
	courier := "c9f0f895-fb98-4b91-9b2a-1e6f4b1a7c22"

	where, args, ok := orderWhere(repository.OrderFilter{CompanyOwnerID: owner, CourierID: courier, IncludeUnassigned: true})
	require.True(t, ok)
	assert.Equal(t,
		"o.company_id IN (SELECT id FROM companies WHERE owner_id = $1) AND (o.courier_id = $2 OR o.courier_id IS NULL)",
		where)
	assert.Equal(t, []any{owner, courier}, args)

	_, _, ok = orderWhere(repository.OrderFilter{ClientID: "no-es-uuid"})
	assert.False(t, ok, "un id que no es UUID no puede coincidir")
}

func TestLikeEscape(t *testing.T) {
	assert.Equal(t, `50\%\_off\\`, likeEscape(`50%_off\`))
}
